package uwbhost

import "github.com/tetratelabs/wazero/api"

// writeBytesIfUnderLimit writes b at buf when it fits in bufLimit. It always
// returns len(b) so the guest can retry with a larger buffer.
func writeBytesIfUnderLimit(memory api.Memory, b []byte, buf, bufLimit uint32) uint32 {
	size := uint32(len(b))
	if size == 0 || size > bufLimit {
		return size
	}
	if !memory.Write(buf, b) {
		return 0
	}
	return size
}
