package mem

import "unsafe"

// BufLimit is the capacity, in bytes, of a buffer offered to a host function.
type BufLimit = uint32

// readBuf is reused for host reads that fit; larger payloads get a fresh slice.
var readBuf = make([]byte, 2048)

// GetBytes calls fn with a guest buffer. fn returns the full payload length,
// writing only when it fits; if it did not, GetBytes retries with a buffer of
// exactly that size.
func GetBytes(fn func(ptr uint32, limit BufLimit) (len uint32)) []byte {
	size := fn(BytesToPtr(readBuf))
	if size == 0 {
		return nil
	}
	if size <= BufLimit(len(readBuf)) {
		out := make([]byte, size)
		copy(out, readBuf[:size])
		return out
	}

	buf := make([]byte, size)
	_ = fn(BytesToPtr(buf))
	return buf
}

// BytesToPtr returns the guest address and length of b. Callers must keep b
// alive until the host is done with the pointer.
func BytesToPtr(b []byte) (uint32, uint32) {
	if len(b) == 0 {
		return 0, 0
	}
	return uint32(uintptr(unsafe.Pointer(unsafe.SliceData(b)))), uint32(len(b))
}

// StringToPtr is BytesToPtr for strings.
func StringToPtr(s string) (uint32, uint32) {
	if s == "" {
		return 0, 0
	}
	return uint32(uintptr(unsafe.Pointer(unsafe.StringData(s)))), uint32(len(s))
}
