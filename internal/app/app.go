// Package app wires configuration, logging and the access guard together
// and runs the guarded dashboard for the example callers.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gatekeeper/internal/config"
	"github.com/dmitrijs2005/gatekeeper/internal/dashboard"
	"github.com/dmitrijs2005/gatekeeper/internal/guard"
	"github.com/dmitrijs2005/gatekeeper/internal/identity"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/dmitrijs2005/gatekeeper/internal/server/auth"
)

// App runs the guarded dashboard with the configured guard and token key.
type App struct {
	config *config.Config
	logger logging.Logger
	guard  *guard.Guard
	key    []byte
	access guard.Operation[string]
}

// NewApp builds an App from c, logging to logOut.
func NewApp(c *config.Config, logOut io.Writer) (*App, error) {
	logger, err := logging.New(logOut, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	mode, err := guard.ParseMode(c.Mode)
	if err != nil {
		return nil, fmt.Errorf("guard init error: %w", err)
	}

	key, err := auth.DeriveKey(c.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("key init error: %w", err)
	}

	g := guard.New(mode, logger)

	return &App{
		config: c,
		logger: logger.With("module", "app"),
		guard:  g,
		key:    key,
		access: dashboard.Guarded(g),
	}, nil
}

// Guard returns the guard built from the configured mode.
func (app *App) Guard() *guard.Guard {
	return app.guard
}

// Key returns the derived token signing key.
func (app *App) Key() []byte {
	return app.key
}

// IssueToken signs rec with the configured key and TTL.
func (app *App) IssueToken(rec identity.Record) (string, error) {
	return auth.GenerateToken(rec, app.key, app.config.TokenTTL)
}

// Run writes the guarded dashboard result for each example record to out,
// one per line, followed by the result for the configured token if any.
func (app *App) Run(ctx context.Context, out io.Writer) error {
	app.logger.Info(ctx, "Starting app...", "mode", app.guard.Mode().String())

	records := identity.Examples()

	if app.config.Token != "" {
		rec, err := auth.RecordFromToken(app.config.Token, app.key)
		if err != nil {
			app.logger.Error(ctx, "token rejected", "error", err)
			return fmt.Errorf("identity token: %w", err)
		}
		records = append(records, rec)
	}

	for _, rec := range records {
		msg, err := app.access(ctx, rec)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, msg); err != nil {
			return err
		}
	}

	return nil
}
