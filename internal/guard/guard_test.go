package guard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/identity"
	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

// spy counts invocations and echoes the caller's name.
type spy struct {
	calls int
}

func (s *spy) op(_ context.Context, rec identity.Record) (string, error) {
	s.calls++
	return "hello " + rec.Name(), nil
}

func newBufferedGuard(t *testing.T, mode Mode) (*Guard, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return New(mode, logging.NewSlogLogger(slog.New(h))), &buf
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		rec  identity.Record
		want Decision
	}{
		{"true strict", Strict, identity.Record{identity.KeyLoggedIn: true}, Decision{true, ReasonLoggedIn}},
		{"true loose", Loose, identity.Record{identity.KeyLoggedIn: true}, Decision{true, ReasonLoggedIn}},
		{"false strict", Strict, identity.Record{identity.KeyLoggedIn: false}, Decision{false, ReasonLoggedOut}},
		{"false loose", Loose, identity.Record{identity.KeyLoggedIn: false}, Decision{false, ReasonLoggedOut}},
		{"missing strict", Strict, identity.Record{identity.KeyName: "x"}, Decision{false, ReasonMissing}},
		{"missing loose", Loose, identity.Record{identity.KeyName: "x"}, Decision{false, ReasonMissing}},
		{"nil record", Strict, nil, Decision{false, ReasonMissing}},
		{"string strict", Strict, identity.Record{identity.KeyLoggedIn: "yes"}, Decision{false, ReasonNotBoolean}},
		{"string loose", Loose, identity.Record{identity.KeyLoggedIn: "yes"}, Decision{true, ReasonNotBoolean}},
		{"zero loose", Loose, identity.Record{identity.KeyLoggedIn: 0}, Decision{false, ReasonNotBoolean}},
		{"float zero loose", Loose, identity.Record{identity.KeyLoggedIn: 0.0}, Decision{false, ReasonNotBoolean}},
		{"uint8 zero loose", Loose, identity.Record{identity.KeyLoggedIn: uint8(0)}, Decision{false, ReasonNotBoolean}},
		{"one loose", Loose, identity.Record{identity.KeyLoggedIn: 1}, Decision{true, ReasonNotBoolean}},
		{"zero strict", Strict, identity.Record{identity.KeyLoggedIn: 0}, Decision{false, ReasonNotBoolean}},
		{"nil value strict", Strict, identity.Record{identity.KeyLoggedIn: nil}, Decision{false, ReasonNotBoolean}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.mode, tt.rec))
		})
	}
}

func TestWrap_LoggedIn_DelegatesUnchanged(t *testing.T) {
	for _, mode := range []Mode{Strict, Loose} {
		t.Run(mode.String(), func(t *testing.T) {
			s := &spy{}
			guarded := New(mode, nil).Wrap(s.op)

			got, err := guarded(context.Background(), identity.New("Dheeraj", true))
			require.NoError(t, err)
			assert.Equal(t, "hello Dheeraj", got)
			assert.Equal(t, 1, s.calls)
		})
	}
}

func TestWrap_LoggedOut_NeverInvokes(t *testing.T) {
	for _, mode := range []Mode{Strict, Loose} {
		t.Run(mode.String(), func(t *testing.T) {
			s := &spy{}
			guarded := New(mode, nil).Wrap(s.op)

			got, err := guarded(context.Background(), identity.New("Guest", false))
			require.NoError(t, err)
			assert.Equal(t, DeniedMarker, got)
			assert.Zero(t, s.calls)
		})
	}
}

func TestWrap_MissingLoginState_Denied(t *testing.T) {
	s := &spy{}
	guarded := New(Loose, nil).Wrap(s.op)

	got, err := guarded(context.Background(), identity.Record{identity.KeyName: "Nobody"})
	require.NoError(t, err)
	assert.Equal(t, "Access Denied", got)
	assert.Zero(t, s.calls)
}

func TestWrap_Loose_NumericZeroFromStruct_Denied(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"name": "Zero", "isLoggedIn": 0})
	require.NoError(t, err)

	rec := identity.FromStruct(s)
	v, _ := rec.LoginState()
	require.IsType(t, float64(0), v)

	sp := &spy{}
	got, err := New(Loose, nil).Wrap(sp.op)(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, DeniedMarker, got)
	assert.Zero(t, sp.calls)
}

func TestWrap_Idempotent(t *testing.T) {
	s := &spy{}
	guarded := New(Strict, nil).Wrap(s.op)
	ctx := context.Background()

	for _, rec := range identity.Examples() {
		first, err1 := guarded(ctx, rec)
		second, err2 := guarded(ctx, rec)
		assert.Equal(t, first, second)
		assert.Equal(t, err1, err2)
	}
	assert.Equal(t, 2, s.calls)
}

func TestWrap_DoesNotMutateRecord(t *testing.T) {
	rec := identity.New("Dheeraj", true)
	before := rec.Clone()

	s := &spy{}
	_, _ = New(Strict, nil).Wrap(s.op)(context.Background(), rec)

	assert.Equal(t, before, rec)
}

func TestWrap_OperationErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	op := func(context.Context, identity.Record) (string, error) {
		return "partial", fmt.Errorf("render: %w", boom)
	}

	got, err := New(Strict, nil).Wrap(op)(context.Background(), identity.New("Dheeraj", true))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "partial", got)
}

func TestRequire_CustomDeniedValue(t *testing.T) {
	calls := 0
	op := func(_ context.Context, rec identity.Record) (int, error) {
		calls++
		return len(rec.Name()), nil
	}

	guarded := Require(New(Strict, nil), op, -1)
	ctx := context.Background()

	n, err := guarded(ctx, identity.New("Dheeraj", true))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = guarded(ctx, identity.New("Guest", false))
	require.NoError(t, err)
	assert.Equal(t, -1, n)
	assert.Equal(t, 1, calls)
}

func TestPermits_Logs(t *testing.T) {
	g, buf := newBufferedGuard(t, Strict)
	ctx := context.Background()

	g.Permits(ctx, identity.New("Dheeraj", true))
	g.Permits(ctx, identity.New("Guest", false))

	out := buf.String()
	assert.Contains(t, out, "msg=\"access granted\"")
	assert.Contains(t, out, "msg=\"access denied\"")
	assert.Contains(t, out, "name=Guest")
	assert.Contains(t, out, "reason=logged_out")
	assert.Contains(t, out, "module=guard")
	assert.Contains(t, out, "call_id=")
}

func TestPermits_WarnsOnNonBoolean(t *testing.T) {
	for _, mode := range []Mode{Strict, Loose} {
		t.Run(mode.String(), func(t *testing.T) {
			g, buf := newBufferedGuard(t, mode)
			d := g.Permits(context.Background(), identity.Record{identity.KeyLoggedIn: "true"})

			assert.Equal(t, mode == Loose, d.Allowed)
			assert.Contains(t, buf.String(), "level=WARN")
			assert.Contains(t, buf.String(), "type=string")
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("STRICT")
	require.NoError(t, err)
	assert.Equal(t, Strict, m)

	m, err = ParseMode(" loose ")
	require.NoError(t, err)
	assert.Equal(t, Loose, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Strict, m)

	_, err = ParseMode("open")
	assert.ErrorIs(t, err, common.ErrUnknownMode)

	assert.Equal(t, "unknown", Mode(7).String())
}
