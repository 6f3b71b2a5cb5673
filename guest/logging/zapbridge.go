//go:build wasm

package logging

import (
	"encoding/json"
	"runtime"

	"github.com/uwbwasm/uwbwasm/guest/internal/mem"
	"go.uber.org/zap"
)

//go:wasmimport uwb uwb_log_message
func logMessage(ptr, size uint32)

// sendLogMessage sends a log message to the host
func sendLogMessage(msg LogMessage) {
	logBytes, err := json.Marshal(msg)
	if err != nil {
		// If marshaling fails, we can't log it, so we return silently
		return
	}

	ptr, size := mem.BytesToPtr(logBytes)
	logMessage(ptr, size)
	runtime.KeepAlive(logBytes) // until ptr is no longer needed
}

// NewHostBridgeLogger creates a zap.Logger that writes through the
// uwb_log_message host function.
func NewHostBridgeLogger() *zap.Logger {
	return zap.New(newHostBridgeCore(sendLogMessage))
}
