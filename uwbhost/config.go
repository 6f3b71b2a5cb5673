package uwbhost

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/uwbwasm/uwbwasm/runtime"
	"gopkg.in/yaml.v3"
)

// CoreConfig is passed to the guest as JSON through uwb_get_core_config.
type CoreConfig map[string]interface{}

// Config defines how to load and configure a UWB guest.
type Config struct {
	// Path to the guest wasm module
	Path string `mapstructure:"path"`

	// CoreConfig is handed to the core running inside the guest
	CoreConfig CoreConfig `mapstructure:"core_config"`

	// Runtime is the configuration of the wasm runtime.
	Runtime runtime.Config `mapstructure:"runtime"`
}

// Validate validates the configuration
func (cfg *Config) Validate() error {
	if cfg.Path == "" {
		return errors.New("path is required")
	}
	return cfg.Runtime.Validate()
}

// Default fills unset fields.
func (cfg *Config) Default() {
	cfg.Runtime.Default()
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("uwbhost: read config: %w", err)
	}

	var m map[string]interface{}
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("uwbhost: parse config %s: %w", path, err)
	}

	cfg := &Config{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("uwbhost: decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("uwbhost: invalid config %s: %w", path, err)
	}
	cfg.Default()
	return cfg, nil
}
