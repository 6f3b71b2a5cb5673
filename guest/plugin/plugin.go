// Package plugin exposes an api.Core to the host as wasm exports.
//
// Every export goes through a Dispatcher, which calls the core and converts
// the outcome with the result package: lifecycle calls become booleans,
// session calls become UCI status bytes, queries become a value or a
// sentinel (-1, or 0 for timestamps).
package plugin

import (
	"context"
	"fmt"

	"github.com/uwbwasm/uwbwasm/guest/api"
	"github.com/uwbwasm/uwbwasm/guest/result"
)

// errNoCore is reported when an export is called before Set.
var errNoCore = fmt.Errorf("no core registered: %w", api.ErrUnknown)

// Dispatcher adapts an api.Core to boundary-safe return values.
type Dispatcher struct {
	core api.Core
	tr   *result.Translator
}

// NewDispatcher returns a Dispatcher for core. A nil translator uses result.Default().
func NewDispatcher(core api.Core, tr *result.Translator) *Dispatcher {
	if tr == nil {
		tr = result.Default()
	}
	return &Dispatcher{core: core, tr: tr}
}

var dispatcher = NewDispatcher(nil, nil)

// Set registers the core served by the wasm exports.
func Set(core api.Core) {
	dispatcher = NewDispatcher(core, nil)
}

func (d *Dispatcher) do(fn func(api.Core) error) error {
	if d.core == nil {
		return errNoCore
	}
	return fn(d.core)
}

// DoInitialize enables the core and reports whether it succeeded.
func (d *Dispatcher) DoInitialize(ctx context.Context) bool {
	return d.tr.Bool(d.do(func(c api.Core) error { return c.Enable(ctx) }), "DoInitialize")
}

// DoDeinitialize disables the core and reports whether it succeeded.
func (d *Dispatcher) DoDeinitialize(ctx context.Context) bool {
	return d.tr.Bool(d.do(func(c api.Core) error { return c.Disable(ctx) }), "DoDeinitialize")
}

// SessionInit opens session id and returns its UCI status byte.
func (d *Dispatcher) SessionInit(ctx context.Context, id api.SessionID, typ api.SessionType) int8 {
	return d.tr.Byte(d.do(func(c api.Core) error { return c.InitSession(ctx, id, typ) }), "SessionInit")
}

// SessionDeinit closes session id and returns its UCI status byte.
func (d *Dispatcher) SessionDeinit(ctx context.Context, id api.SessionID) int8 {
	return d.tr.Byte(d.do(func(c api.Core) error { return c.DeinitSession(ctx, id) }), "SessionDeInit")
}

// RangingStart starts ranging on session id and returns its UCI status byte.
func (d *Dispatcher) RangingStart(ctx context.Context, id api.SessionID) int8 {
	return d.tr.Byte(d.do(func(c api.Core) error { return c.StartRanging(ctx, id) }), "RangingStart")
}

// RangingStop stops ranging on session id and returns its UCI status byte.
func (d *Dispatcher) RangingStop(ctx context.Context, id api.SessionID) int8 {
	return d.tr.Byte(d.do(func(c api.Core) error { return c.StopRanging(ctx, id) }), "RangingStop")
}

// SetCountryCode takes the raw two-byte code written by the host.
func (d *Dispatcher) SetCountryCode(ctx context.Context, raw []byte) int8 {
	err := d.do(func(c api.Core) error {
		code, err := api.ParseCountryCode(string(raw))
		if err != nil {
			return err
		}
		return c.SetCountryCode(ctx, code)
	})
	return d.tr.Byte(err, "SetCountryCode")
}

// SessionCount returns the number of open sessions (0..255), or -1.
func (d *Dispatcher) SessionCount(ctx context.Context) int32 {
	var count uint8
	err := d.do(func(c api.Core) (err error) {
		count, err = c.SessionCount(ctx)
		return err
	})
	if count, ok := result.Option(d.tr, count, err, "GetSessionCount"); ok {
		return int32(count)
	}
	return -1
}

// SessionState returns the session state, or -1.
func (d *Dispatcher) SessionState(ctx context.Context, id api.SessionID) int8 {
	var state api.SessionState
	err := d.do(func(c api.Core) (err error) {
		state, err = c.SessionState(ctx, id)
		return err
	})
	if state, ok := result.Option(d.tr, state, err, "GetSessionState"); ok {
		return int8(state)
	}
	return -1
}

// QueryUwbTimestamp returns the UWBS timestamp in microseconds, or 0.
func (d *Dispatcher) QueryUwbTimestamp(ctx context.Context) uint64 {
	var ts uint64
	err := d.do(func(c api.Core) (err error) {
		ts, err = c.QueryUwbTimestamp(ctx)
		return err
	})
	ts, _ = result.Option(d.tr, ts, err, "QueryUwbTimestamp")
	return ts
}

func boolToI32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
