// Package dashboard holds the user-facing operation protected by the guard.
package dashboard

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gatekeeper/internal/guard"
	"github.com/dmitrijs2005/gatekeeper/internal/identity"
)

// DefaultName is shown for records without a display name.
const DefaultName = "Guest"

// Access greets the caller. It does not check the login state itself.
func Access(_ context.Context, rec identity.Record) (string, error) {
	name := rec.Name()
	if name == "" {
		name = DefaultName
	}
	return fmt.Sprintf("Welcome %s. Access to the dashboard.", name), nil
}

// Guarded returns Access wrapped by g.
func Guarded(g *guard.Guard) guard.Operation[string] {
	return g.Wrap(Access)
}
