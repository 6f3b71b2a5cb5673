package uwbhost

import "errors"

var (
	// ErrRequiredFunctionNotExported is returned by NewGuest when the module
	// lacks one of the uwb_* exports.
	ErrRequiredFunctionNotExported = errors.New("required function not exported")
	// ErrABIVersionMarkerNotExported is returned by NewGuest when the module
	// does not export the ABI version marker this host speaks.
	ErrABIVersionMarkerNotExported = errors.New("required ABI version marker not exported")
	// ErrNoResult is returned when a guest export that must return a value
	// returns nothing.
	ErrNoResult = errors.New("guest function returned no result")
)
