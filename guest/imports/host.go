// Package imports wraps the functions the host provides to the guest.
package imports

import (
	"encoding/json"
	"fmt"

	"github.com/uwbwasm/uwbwasm/guest/internal/mem"
)

// GetConfig unmarshals the core config JSON supplied by the host into v. It
// leaves v untouched when the host has no config.
func GetConfig(v any) error {
	raw := mem.GetBytes(func(ptr uint32, limit mem.BufLimit) (len uint32) {
		return getCoreConfig(ptr, limit)
	})
	return decodeConfig(raw, v)
}

func decodeConfig(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("imports: decode core config: %w", err)
	}
	return nil
}
