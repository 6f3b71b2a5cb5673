//go:build wasm

package imports

import "github.com/uwbwasm/uwbwasm/guest/internal/mem"

//go:wasmimport uwb uwb_get_core_config
func getCoreConfig(ptr uint32, limit mem.BufLimit) (len uint32)
