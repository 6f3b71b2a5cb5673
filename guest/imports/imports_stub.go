//go:build !wasm

package imports

import "github.com/uwbwasm/uwbwasm/guest/internal/mem"

// This file is used to stub out the imports for running tests.

func getCoreConfig(ptr uint32, limit mem.BufLimit) (len uint32) { return }
