package wazero

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/uwbwasm/uwbwasm/runtime"
)

// newWazeroRuntime creates a wazero engine in the mode selected by cfg.
func newWazeroRuntime(cfg runtime.Config) (runtime.Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Default()

	var wrc wazero.RuntimeConfig
	switch cfg.Mode {
	case runtime.ModeCompiled:
		wrc = wazero.NewRuntimeConfigCompiler()
	default:
		wrc = wazero.NewRuntimeConfigInterpreter()
	}

	return &wazeroRuntime{
		runtime: wazero.NewRuntimeWithConfig(context.Background(), wrc),
		config:  cfg,
	}, nil
}
