package uwbhost

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"github.com/uwbwasm/uwbwasm/runtime"
	"go.uber.org/zap"
)

const (
	// hostModuleName is the module name guests import host functions from
	hostModuleName = "uwb"

	logMessage    = "uwb_log_message"
	getCoreConfig = "uwb_get_core_config"
)

// stackKey is the key used to store the stack in the context
type stackKey struct{}

// Stack holds the host state visible to host functions during a guest call.
type Stack struct {
	Logger *zap.Logger

	// CoreConfigJSON is the core config in JSON representation passed to the guest
	CoreConfigJSON []byte
}

func withStack(ctx context.Context, stack *Stack) context.Context {
	return context.WithValue(ctx, stackKey{}, stack)
}

// stackFromContext returns the Stack in ctx, or an empty one.
func stackFromContext(ctx context.Context) *Stack {
	if s, ok := ctx.Value(stackKey{}).(*Stack); ok && s != nil {
		return s
	}
	return &Stack{}
}

func newHostModule() *runtime.HostModule {
	i32 := runtime.ValueTypeI32

	hm := runtime.NewHostModule(hostModuleName)
	hm.AddFunction(logMessage,
		[]runtime.ValueType{i32, i32}, nil,
		&runtime.WazeroHostFunction{Function: logMessageFn})
	hm.AddFunction(getCoreConfig,
		[]runtime.ValueType{i32, i32}, []runtime.ValueType{i32},
		&runtime.WazeroHostFunction{Function: getCoreConfigFn})
	return hm
}

func getCoreConfigFn(ctx context.Context, mod api.Module, stack []uint64) {
	buf := uint32(stack[0])
	bufLimit := uint32(stack[1])

	coreConfig := stackFromContext(ctx).CoreConfigJSON
	stack[0] = uint64(writeBytesIfUnderLimit(mod.Memory(), coreConfig, buf, bufLimit))
}
