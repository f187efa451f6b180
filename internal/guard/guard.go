// Package guard gates an operation behind the caller's login state.
//
// A guarded operation inspects the identity record it is called with. When
// the record is not logged in it returns a fixed denial value without calling
// the wrapped operation; otherwise it delegates and returns the result
// unchanged, errors included.
//
//	g := guard.New(guard.Strict, logger)
//	access := g.Wrap(dashboard.Access)
//	msg, err := access(ctx, identity.New("Dheeraj", true))
package guard

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gatekeeper/internal/identity"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/google/uuid"
)

// DeniedMarker is returned by Wrap in place of the operation's result when
// access is refused.
const DeniedMarker = "Access Denied"

// Reason explains a Decision.
type Reason string

const (
	ReasonLoggedIn   Reason = "logged_in"
	ReasonMissing    Reason = "login_state_missing"
	ReasonLoggedOut  Reason = "logged_out"
	ReasonNotBoolean Reason = "login_state_not_boolean"
)

// Decision is the outcome of a login-state check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Operation is a function taking an identity record.
type Operation[R any] func(ctx context.Context, rec identity.Record) (R, error)

// Evaluate checks rec's login state under mode. It has no side effects.
func Evaluate(mode Mode, rec identity.Record) Decision {
	v, ok := rec.LoginState()
	if !ok {
		return Decision{Allowed: false, Reason: ReasonMissing}
	}

	b, isBool := v.(bool)
	switch {
	case isBool && b:
		return Decision{Allowed: true, Reason: ReasonLoggedIn}
	case isBool:
		return Decision{Allowed: false, Reason: ReasonLoggedOut}
	case mode == Loose && !isNumericZero(v):
		return Decision{Allowed: true, Reason: ReasonNotBoolean}
	default:
		return Decision{Allowed: false, Reason: ReasonNotBoolean}
	}
}

// isNumericZero reports whether v is a zero of any Go numeric kind. Loose
// mode treats it like false; structpb delivers numbers as float64.
func isNumericZero(v any) bool {
	switch n := v.(type) {
	case int:
		return n == 0
	case int8:
		return n == 0
	case int16:
		return n == 0
	case int32:
		return n == 0
	case int64:
		return n == 0
	case uint:
		return n == 0
	case uint8:
		return n == 0
	case uint16:
		return n == 0
	case uint32:
		return n == 0
	case uint64:
		return n == 0
	case float32:
		return n == 0
	case float64:
		return n == 0
	}
	return false
}

// Guard applies Evaluate and logs each decision. It keeps no per-call state,
// so a guarded operation gives the same outcome for the same record.
type Guard struct {
	mode   Mode
	logger logging.Logger
}

// New creates a Guard. A nil logger disables logging.
func New(mode Mode, l logging.Logger) *Guard {
	if l == nil {
		l = logging.Nop()
	}
	return &Guard{mode: mode, logger: l.With("module", "guard", "mode", mode.String())}
}

// Mode returns the mode g was created with.
func (g *Guard) Mode() Mode {
	return g.mode
}

// Permits evaluates rec and logs the decision.
func (g *Guard) Permits(ctx context.Context, rec identity.Record) Decision {
	d := Evaluate(g.mode, rec)
	log := g.logger.With("call_id", uuid.NewString(), "name", rec.Name(), "reason", string(d.Reason))

	if d.Reason == ReasonNotBoolean {
		v, _ := rec.LoginState()
		log.Warn(ctx, "non-boolean login state", "type", fmt.Sprintf("%T", v), "allowed", d.Allowed)
	}

	if d.Allowed {
		log.Debug(ctx, "access granted")
	} else {
		log.Info(ctx, "access denied")
	}

	return d
}

// Require wraps op so it is only invoked for records g permits. Denied calls
// return denied and a nil error.
func Require[R any](g *Guard, op Operation[R], denied R) Operation[R] {
	return func(ctx context.Context, rec identity.Record) (R, error) {
		if !g.Permits(ctx, rec).Allowed {
			return denied, nil
		}
		return op(ctx, rec)
	}
}

// Wrap is Require with DeniedMarker as the denial value.
func (g *Guard) Wrap(op Operation[string]) Operation[string] {
	return Require(g, op, DeniedMarker)
}
