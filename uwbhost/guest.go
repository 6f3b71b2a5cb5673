// Package uwbhost loads a UWB guest module and calls its exports with typed
// results.
package uwbhost

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/uwbwasm/uwbwasm/guest/api"
	"github.com/uwbwasm/uwbwasm/runtime"
	_ "github.com/uwbwasm/uwbwasm/runtime/wazero" // Register Wazero runtime
	"github.com/uwbwasm/uwbwasm/uci"
	"go.uber.org/zap"
)

// Guest exports
const (
	memoryAllocate    = "uwb_memory_allocate"
	doInitialize      = "uwb_do_initialize"
	doDeinitialize    = "uwb_do_deinitialize"
	sessionInit       = "uwb_session_init"
	sessionDeinit     = "uwb_session_deinit"
	rangingStart      = "uwb_ranging_start"
	rangingStop       = "uwb_ranging_stop"
	setCountryCode    = "uwb_set_country_code"
	getSessionCount   = "uwb_get_session_count"
	getSessionState   = "uwb_get_session_state"
	queryUwbTimestamp = "uwb_query_uwb_timestamp"
)

var requiredFunctions = []string{
	memoryAllocate,
	doInitialize,
	doDeinitialize,
	sessionInit,
	sessionDeinit,
	rangingStart,
	rangingStop,
	setCountryCode,
	getSessionCount,
	getSessionState,
	queryUwbTimestamp,
}

// Guest is a loaded UWB guest module. Calls are serialized; a wasm instance
// is single threaded.
type Guest struct {
	// Runtime is the WebAssembly runtime (abstracted)
	Runtime runtime.Runtime

	// RuntimeContext holds runtime-specific state (WASI, host modules, etc.)
	RuntimeContext runtime.Context

	// Module is the instantiated guest
	Module runtime.ModuleInstance

	// CoreConfigJSON is the core config served to the guest
	CoreConfigJSON []byte

	// ExportedFunctions are the guest exports the host calls
	ExportedFunctions map[string]runtime.FunctionInstance

	logger *zap.Logger
	mu     sync.Mutex
}

// NewGuest loads, compiles and instantiates the guest at cfg.Path. Log records
// written by the guest go to logger, which may be nil.
func NewGuest(ctx context.Context, cfg *Config, logger *zap.Logger) (*Guest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bytes, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, err
	}

	var coreConfigJSON []byte
	if len(cfg.CoreConfig) > 0 {
		if coreConfigJSON, err = json.Marshal(cfg.CoreConfig); err != nil {
			return nil, fmt.Errorf("wasm: error marshalling core config: %w", err)
		}
	}

	rtCfg := cfg.Runtime
	rtCfg.Default()
	rt, err := runtime.NewRuntime(rtCfg)
	if err != nil {
		return nil, fmt.Errorf("wasm: error creating runtime: %w", err)
	}

	g, err := instantiate(ctx, rt, bytes, coreConfigJSON, logger)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	return g, nil
}

func instantiate(ctx context.Context, rt runtime.Runtime, bytes, coreConfigJSON []byte, logger *zap.Logger) (*Guest, error) {
	compiled, err := rt.Compile(ctx, bytes)
	if err != nil {
		return nil, fmt.Errorf("wasm: error compiling module: %w", err)
	}

	// The guest reads its config and may log while it initializes.
	ctx = withStack(ctx, &Stack{Logger: logger, CoreConfigJSON: coreConfigJSON})
	instance, runtimeContext, err := rt.InstantiateWithHost(ctx, compiled, newHostModule())
	if err != nil {
		return nil, fmt.Errorf("wasm: error instantiating module: %w", err)
	}

	if v := detectABIVersion(instance); v != ABIV1 {
		_ = runtimeContext.Close(ctx)
		return nil, fmt.Errorf("wasm: %s is not exported (detected ABI %s): %w", abiVersionV1MarkerExport, v, ErrABIVersionMarkerNotExported)
	}

	exportedFunctions := make(map[string]runtime.FunctionInstance, len(requiredFunctions))
	for _, name := range requiredFunctions {
		fn := instance.Function(name)
		if fn == nil {
			_ = runtimeContext.Close(ctx)
			return nil, fmt.Errorf("wasm: %s is not exported: %w", name, ErrRequiredFunctionNotExported)
		}
		exportedFunctions[name] = fn
	}

	return &Guest{
		Runtime:           rt,
		RuntimeContext:    runtimeContext,
		Module:            instance,
		CoreConfigJSON:    coreConfigJSON,
		ExportedFunctions: exportedFunctions,
		logger:            logger,
	}, nil
}

// call invokes an export and returns its single result.
func (g *Guest) call(ctx context.Context, name string, params ...uint64) (uint64, error) {
	fn, ok := g.ExportedFunctions[name]
	if !ok {
		return 0, fmt.Errorf("wasm: function not found: %s: %w", name, ErrRequiredFunctionNotExported)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	ctx = withStack(ctx, &Stack{Logger: g.logger, CoreConfigJSON: g.CoreConfigJSON})
	ctx = g.RuntimeContext.WithRuntimeContext(ctx)

	res, err := fn.Call(ctx, params...)
	if err != nil {
		return 0, fmt.Errorf("wasm: %s: %w", name, err)
	}
	if len(res) == 0 {
		return 0, fmt.Errorf("wasm: %s: %w", name, ErrNoResult)
	}
	return res[0], nil
}

// i32 reinterprets the low 32 bits of a wasm result as a signed value.
func i32(v uint64) int32 {
	return int32(uint32(v))
}

func (g *Guest) callBool(ctx context.Context, name string, params ...uint64) (bool, error) {
	res, err := g.call(ctx, name, params...)
	if err != nil {
		return false, err
	}
	return i32(res) != 0, nil
}

func (g *Guest) callStatus(ctx context.Context, name string, params ...uint64) (uci.StatusCode, error) {
	res, err := g.call(ctx, name, params...)
	if err != nil {
		return uci.StatusFailed, err
	}
	// Status bytes arrive sign-extended.
	return uci.FromByte(int8(i32(res))), nil
}

// DoInitialize enables the UWB core.
func (g *Guest) DoInitialize(ctx context.Context) (bool, error) {
	return g.callBool(ctx, doInitialize)
}

// DoDeinitialize disables the UWB core.
func (g *Guest) DoDeinitialize(ctx context.Context) (bool, error) {
	return g.callBool(ctx, doDeinitialize)
}

// SessionInit opens session id of the given type.
func (g *Guest) SessionInit(ctx context.Context, id api.SessionID, typ api.SessionType) (uci.StatusCode, error) {
	return g.callStatus(ctx, sessionInit, uint64(id), uint64(typ))
}

// SessionDeinit closes session id.
func (g *Guest) SessionDeinit(ctx context.Context, id api.SessionID) (uci.StatusCode, error) {
	return g.callStatus(ctx, sessionDeinit, uint64(id))
}

// RangingStart starts ranging on session id.
func (g *Guest) RangingStart(ctx context.Context, id api.SessionID) (uci.StatusCode, error) {
	return g.callStatus(ctx, rangingStart, uint64(id))
}

// RangingStop stops ranging on session id.
func (g *Guest) RangingStop(ctx context.Context, id api.SessionID) (uci.StatusCode, error) {
	return g.callStatus(ctx, rangingStop, uint64(id))
}

// SetCountryCode copies code into a guest buffer and passes it to the core.
// The guest validates the code.
func (g *Guest) SetCountryCode(ctx context.Context, code string) (uci.StatusCode, error) {
	size := uint64(len(code))
	ptr, err := g.call(ctx, memoryAllocate, size)
	if err != nil {
		return uci.StatusFailed, err
	}

	memory := g.Module.Memory()
	if memory == nil || !memory.Write(uint32(ptr), []byte(code)) {
		return uci.StatusFailed, fmt.Errorf("wasm: country code buffer at %d is out of range", uint32(ptr))
	}

	return g.callStatus(ctx, setCountryCode, ptr, size)
}

// SessionCount returns the number of open sessions. ok is false when the core
// reported a failure.
func (g *Guest) SessionCount(ctx context.Context) (count uint8, ok bool, err error) {
	res, err := g.call(ctx, getSessionCount)
	if err != nil {
		return 0, false, err
	}
	if n := i32(res); n >= 0 {
		return uint8(n), true, nil
	}
	return 0, false, nil
}

// SessionState returns the state of session id. ok is false when the core
// reported a failure.
func (g *Guest) SessionState(ctx context.Context, id api.SessionID) (state api.SessionState, ok bool, err error) {
	res, err := g.call(ctx, getSessionState, uint64(id))
	if err != nil {
		return 0, false, err
	}
	if n := i32(res); n >= 0 {
		return api.SessionState(n), true, nil
	}
	return 0, false, nil
}

// QueryUwbTimestamp returns the UWBS timestamp in microseconds. The guest
// reports failure as 0, so ok is false for a zero timestamp.
func (g *Guest) QueryUwbTimestamp(ctx context.Context) (ts uint64, ok bool, err error) {
	ts, err = g.call(ctx, queryUwbTimestamp)
	if err != nil {
		return 0, false, err
	}
	return ts, ts != 0, nil
}

// Shutdown closes the runtime context and the runtime.
func (g *Guest) Shutdown(ctx context.Context) error {
	if g.RuntimeContext != nil {
		if err := g.RuntimeContext.Close(ctx); err != nil {
			return fmt.Errorf("wasm: error closing runtime context: %w", err)
		}
	}

	if g.Runtime != nil {
		if err := g.Runtime.Close(ctx); err != nil {
			return fmt.Errorf("wasm: error closing runtime: %w", err)
		}
	}

	return nil
}
