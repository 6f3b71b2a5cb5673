package runtime

import "fmt"

// TypeWazero is the name the wazero adapter registers under.
const TypeWazero = "wazero"

// Mode selects how the engine executes guest code.
type Mode string

const (
	ModeInterpreter Mode = "interpreter"
	ModeCompiled    Mode = "compiled"
)

// Config is the configuration of the guest runtime.
type Config struct {
	// Type is the registered runtime name; empty means wazero.
	Type string `mapstructure:"type" yaml:"type"`
	Mode Mode   `mapstructure:"mode" yaml:"mode"`
}

// Default fills unset fields.
func (c *Config) Default() {
	if c.Type == "" {
		c.Type = TypeWazero
	}
	if c.Mode == "" {
		c.Mode = ModeInterpreter
	}
}

// Validate rejects unknown modes. An empty mode is accepted and defaulted later.
func (c *Config) Validate() error {
	switch c.Mode {
	case "", ModeInterpreter, ModeCompiled:
		return nil
	default:
		return fmt.Errorf("runtime mode %q: %w", c.Mode, ErrInvalidConfiguration)
	}
}
