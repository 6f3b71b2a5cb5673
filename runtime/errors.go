package runtime

import "errors"

// Common errors used across runtime implementations
var (
	ErrRuntimeNotFound      = errors.New("runtime not found")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMemoryExportNotFound = errors.New("memory export not found")
	ErrHostFunctionNotFound = errors.New("host function not found")
)
