// Package mem moves byte buffers between guest linear memory and the host.
package mem

import (
	"fmt"
	"unsafe"
)

// pinnedAllocations holds buffers handed to the host until guest code claims
// them with TakeOwnership, so the GC cannot reclaim them mid-call.
var pinnedAllocations = map[uint32][]byte{}

// Alloc reserves size bytes for the host to fill and returns their address.
func Alloc(size uint32) uint32 {
	if size == 0 {
		return 0
	}

	buf := make([]byte, size)
	ptr := uint32(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
	pinnedAllocations[ptr] = buf
	return ptr
}

// TakeOwnership unpins the buffer at ptr and returns its first size bytes.
func TakeOwnership(ptr uint32, size uint32) []byte {
	if ptr == 0 && size == 0 {
		return nil
	}

	buf, ok := pinnedAllocations[ptr]
	if !ok {
		panic(fmt.Sprintf("mem: unknown pointer %d", ptr))
	}

	delete(pinnedAllocations, ptr)
	if size > uint32(len(buf)) {
		panic(fmt.Sprintf("mem: size %d exceeds allocation %d", size, len(buf)))
	}

	return buf[:size]
}
