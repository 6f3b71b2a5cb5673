package fakecore

import (
	"fmt"

	"github.com/uwbwasm/uwbwasm/guest/imports"
)

// NewFromHost creates a Core from the config served by the host through
// uwb_get_core_config. Without host config the defaults apply. It panics on an
// invalid config, which fails guest instantiation.
func NewFromHost(opts ...Option) *Core {
	cfg, err := hostConfig()
	if err != nil {
		panic(err)
	}
	return New(cfg, opts...)
}

func hostConfig() (Config, error) {
	var raw any
	if err := imports.GetConfig(&raw); err != nil {
		return Config{}, fmt.Errorf("fakecore: %w", err)
	}
	return DecodeConfig(raw)
}
