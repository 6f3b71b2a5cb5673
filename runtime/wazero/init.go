package wazero

import "github.com/uwbwasm/uwbwasm/runtime"

func init() {
	runtime.Register(runtime.TypeWazero, newWazeroRuntime)
}
