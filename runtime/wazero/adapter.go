// Package wazero implements runtime.Runtime on top of the wazero engine.
package wazero

import (
	"context"
	"fmt"
	"os"

	"github.com/stealthrocket/wasi-go"
	wasigo "github.com/stealthrocket/wasi-go/imports"
	"github.com/stealthrocket/wasi-go/imports/wasi_snapshot_preview1"
	"github.com/stealthrocket/wazergo"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/uwbwasm/uwbwasm/runtime"
)

const (
	// guestExportMemory is the name of the memory export in the guest module
	guestExportMemory = "memory"
	// wasmEdgeV2Extension is the WASI extension name
	wasmEdgeV2Extension = "wasmedgev2"
	// guestStartFunction is run once on instantiation of reactor modules
	guestStartFunction = "_initialize"
)

type wazeroRuntime struct {
	runtime wazero.Runtime
	config  runtime.Config
}

type wazeroCompiledModule struct {
	module wazero.CompiledModule
}

type wazeroModuleInstance struct {
	instance api.Module
}

type wazeroFunctionInstance struct {
	function api.Function
}

type wazeroMemory struct {
	memory api.Memory
}

type wazeroContext struct {
	sys              wasi.System
	wasiP1HostModule *wasi_snapshot_preview1.Module
}

// Compile compiles the given Wasm binary into a CompiledModule
func (r *wazeroRuntime) Compile(ctx context.Context, binary []byte) (runtime.CompiledModule, error) {
	compiled, err := r.runtime.CompileModule(ctx, binary)
	if err != nil {
		return nil, fmt.Errorf("wazero compile error: %w", err)
	}

	if _, ok := compiled.ExportedMemories()[guestExportMemory]; !ok {
		_ = compiled.Close(ctx)
		return nil, fmt.Errorf("wasm: guest doesn't export memory[%s]: %w", guestExportMemory, runtime.ErrMemoryExportNotFound)
	}

	return &wazeroCompiledModule{module: compiled}, nil
}

// InstantiateWithHost sets up WASI, instantiates hostModule and then the guest.
func (r *wazeroRuntime) InstantiateWithHost(ctx context.Context, module runtime.CompiledModule, hostModule *runtime.HostModule) (runtime.ModuleInstance, runtime.Context, error) {
	wazeroModule, ok := module.(*wazeroCompiledModule)
	if !ok {
		return nil, nil, fmt.Errorf("invalid module type for wazero runtime: %w", runtime.ErrInvalidConfiguration)
	}
	if hostModule == nil {
		return nil, nil, fmt.Errorf("nil host module: %w", runtime.ErrInvalidConfiguration)
	}

	ctx, sys, err := wasigo.NewBuilder().
		WithSocketsExtension(wasmEdgeV2Extension, wazeroModule.module).
		Instantiate(ctx, r.runtime)
	if err != nil {
		return nil, nil, fmt.Errorf("wasi instantiation failed: %w", err)
	}

	// wasi-go binds its host functions to the instance stored in ctx, so
	// later guest calls need the same value in their context.
	wasiP1HostModule, ok := moduleInstanceFor[*wasi_snapshot_preview1.Module](ctx)
	if !ok {
		sys.Close(ctx)
		return nil, nil, fmt.Errorf("failed to retrieve wasi host module instance: %w", runtime.ErrInvalidConfiguration)
	}

	if _, err := r.instantiateHostModule(ctx, hostModule); err != nil {
		sys.Close(ctx)
		return nil, nil, fmt.Errorf("host module instantiation failed: %w", err)
	}

	config := wazero.NewModuleConfig().
		WithStartFunctions(guestStartFunction).
		WithStdout(os.Stdout).
		WithStderr(os.Stderr)

	instance, err := r.runtime.InstantiateModule(ctx, wazeroModule.module, config)
	if err != nil {
		sys.Close(ctx)
		return nil, nil, fmt.Errorf("guest module instantiation failed: %w", err)
	}

	runtimeCtx := &wazeroContext{
		sys:              sys,
		wasiP1HostModule: wasiP1HostModule,
	}
	return &wazeroModuleInstance{instance: instance}, runtimeCtx, nil
}

// Close closes the runtime and every module instantiated in it.
func (r *wazeroRuntime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

func (m *wazeroCompiledModule) Close(ctx context.Context) error {
	return m.module.Close(ctx)
}

func (m *wazeroModuleInstance) Function(name string) runtime.FunctionInstance {
	fn := m.instance.ExportedFunction(name)
	if fn == nil {
		return nil
	}
	return &wazeroFunctionInstance{function: fn}
}

func (m *wazeroModuleInstance) Memory() runtime.Memory {
	memory := m.instance.Memory()
	if memory == nil {
		return nil
	}
	return &wazeroMemory{memory: memory}
}

func (m *wazeroModuleInstance) Close(ctx context.Context) error {
	return m.instance.Close(ctx)
}

func (f *wazeroFunctionInstance) Call(ctx context.Context, params ...uint64) ([]uint64, error) {
	return f.function.Call(ctx, params...)
}

func (mem *wazeroMemory) Read(offset uint32, size uint32) ([]byte, bool) {
	return mem.memory.Read(offset, size)
}

func (mem *wazeroMemory) Write(offset uint32, data []byte) bool {
	return mem.memory.Write(offset, data)
}

func (c *wazeroContext) Close(ctx context.Context) error {
	return c.sys.Close(ctx)
}

// WithRuntimeContext attaches the WASI host module instance to ctx.
func (c *wazeroContext) WithRuntimeContext(ctx context.Context) context.Context {
	return withModuleInstance(ctx, c.wasiP1HostModule)
}

// instantiateHostModule exports every function of hostModule under hostModule.Name.
func (r *wazeroRuntime) instantiateHostModule(ctx context.Context, hostModule *runtime.HostModule) (api.Module, error) {
	builder := r.runtime.NewHostModuleBuilder(hostModule.Name)

	for _, hostFunc := range hostModule.Functions {
		impl := hostFunc.Function.GetImplementation(runtime.TypeWazero)
		if impl == nil {
			return nil, fmt.Errorf("no wazero implementation for host function %s: %w", hostFunc.FunctionName, runtime.ErrHostFunctionNotFound)
		}

		wazeroFunc, ok := impl.(func(context.Context, api.Module, []uint64))
		if !ok {
			return nil, fmt.Errorf("invalid wazero function signature for %s: %w", hostFunc.FunctionName, runtime.ErrHostFunctionNotFound)
		}

		builder = builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(wazeroFunc), convertValueTypes(hostFunc.ParamTypes), convertValueTypes(hostFunc.ResultTypes)).
			Export(hostFunc.FunctionName)
	}

	return builder.Instantiate(ctx)
}

func convertValueTypes(vts []runtime.ValueType) []api.ValueType {
	out := make([]api.ValueType, len(vts))
	for i, vt := range vts {
		out[i] = convertValueType(vt)
	}
	return out
}

func convertValueType(vt runtime.ValueType) api.ValueType {
	switch vt {
	case runtime.ValueTypeI64:
		return api.ValueTypeI64
	case runtime.ValueTypeF32:
		return api.ValueTypeF32
	case runtime.ValueTypeF64:
		return api.ValueTypeF64
	default:
		return api.ValueTypeI32
	}
}

// moduleInstanceFor returns the wazergo module instance wasi-go stored in ctx.
func moduleInstanceFor[T wazergo.Module](ctx context.Context) (res T, ok bool) {
	res, ok = ctx.Value((*wazergo.ModuleInstance[T])(nil)).(T)
	return
}

// withModuleInstance stores instance in ctx under the key wazergo looks up
// when binding host functions to their receiver.
func withModuleInstance[T wazergo.Module](ctx context.Context, instance T) context.Context {
	return context.WithValue(ctx, (*wazergo.ModuleInstance[T])(nil), instance)
}
