//go:build wasm

package mem

//go:wasmexport uwb_memory_allocate
func allocate(size uint32) uint32 {
	return Alloc(size)
}
