package wazero

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/api"
	"github.com/uwbwasm/uwbwasm/internal/wasmtest"
	"github.com/uwbwasm/uwbwasm/runtime"
)

func newTestRuntime(t *testing.T, mode runtime.Mode) runtime.Runtime {
	t.Helper()
	rt, err := runtime.NewRuntime(runtime.Config{Mode: mode})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(context.Background()) })
	return rt
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, runtime.List(), runtime.TypeWazero)
}

func TestNewWazeroRuntimeRejectsUnknownMode(t *testing.T) {
	_, err := newWazeroRuntime(runtime.Config{Mode: "jit"})
	assert.ErrorIs(t, err, runtime.ErrInvalidConfiguration)
}

func TestCompileRequiresMemory(t *testing.T) {
	rt := newTestRuntime(t, runtime.ModeInterpreter)

	_, err := rt.Compile(context.Background(), wasmtest.Module{}.Bytes())
	assert.ErrorIs(t, err, runtime.ErrMemoryExportNotFound)

	_, err = rt.Compile(context.Background(), []byte("not wasm"))
	assert.Error(t, err)
}

func TestInstantiateWithHost(t *testing.T) {
	for _, mode := range []runtime.Mode{runtime.ModeInterpreter, runtime.ModeCompiled} {
		t.Run(string(mode), func(t *testing.T) {
			ctx := context.Background()
			rt := newTestRuntime(t, mode)

			// add_one(x) returns host_add(x, 1); the host sums its arguments.
			bin := wasmtest.Module{
				Imports: []wasmtest.Import{{
					Module: "test",
					Name:   "host_add",
					Sig:    wasmtest.Signature{Params: []wasmtest.ValType{wasmtest.I32, wasmtest.I32}, Results: []wasmtest.ValType{wasmtest.I32}},
				}},
				Funcs: []wasmtest.Func{{
					Name: "add_one",
					Sig:  wasmtest.Signature{Params: []wasmtest.ValType{wasmtest.I32}, Results: []wasmtest.ValType{wasmtest.I32}},
					Body: wasmtest.Seq(wasmtest.LocalGet(0), wasmtest.I32Const(1), wasmtest.Call(0)),
				}},
				Memory: true,
				Data:   []wasmtest.Data{{Offset: 16, Bytes: []byte("uwb")}},
			}.Bytes()

			compiled, err := rt.Compile(ctx, bin)
			require.NoError(t, err)

			hm := runtime.NewHostModule("test")
			hm.AddFunction("host_add",
				[]runtime.ValueType{runtime.ValueTypeI32, runtime.ValueTypeI32},
				[]runtime.ValueType{runtime.ValueTypeI32},
				&runtime.WazeroHostFunction{Function: func(_ context.Context, _ api.Module, stack []uint64) {
					stack[0] = uint64(uint32(stack[0]) + uint32(stack[1]))
				}})

			instance, rtCtx, err := rt.InstantiateWithHost(ctx, compiled, hm)
			require.NoError(t, err)
			t.Cleanup(func() { _ = rtCtx.Close(ctx) })

			fn := instance.Function("add_one")
			require.NotNil(t, fn)
			res, err := fn.Call(rtCtx.WithRuntimeContext(ctx), 41)
			require.NoError(t, err)
			assert.Equal(t, uint64(42), res[0])

			assert.Nil(t, instance.Function("missing"))

			memory := instance.Memory()
			require.NotNil(t, memory)
			got, ok := memory.Read(16, 3)
			require.True(t, ok)
			assert.Equal(t, "uwb", string(got))
			assert.True(t, memory.Write(32, []byte{1, 2}))
			_, ok = memory.Read(65536, 1)
			assert.False(t, ok)
		})
	}
}

func TestInstantiateWithHostMissingImplementation(t *testing.T) {
	ctx := context.Background()
	rt := newTestRuntime(t, runtime.ModeInterpreter)

	compiled, err := rt.Compile(ctx, wasmtest.Module{Memory: true}.Bytes())
	require.NoError(t, err)

	hm := runtime.NewHostModule("test")
	hm.AddFunction("f", nil, nil, otherRuntimeFunction{})

	_, _, err = rt.InstantiateWithHost(ctx, compiled, hm)
	assert.ErrorIs(t, err, runtime.ErrHostFunctionNotFound)
}

type otherRuntimeFunction struct{}

func (otherRuntimeFunction) GetImplementation(string) interface{} { return nil }

func TestInstantiateWithHostNilHostModule(t *testing.T) {
	ctx := context.Background()
	rt := newTestRuntime(t, runtime.ModeInterpreter)

	compiled, err := rt.Compile(ctx, wasmtest.Module{Memory: true}.Bytes())
	require.NoError(t, err)

	_, _, err = rt.InstantiateWithHost(ctx, compiled, nil)
	assert.ErrorIs(t, err, runtime.ErrInvalidConfiguration)
}
