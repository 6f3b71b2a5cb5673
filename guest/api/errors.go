// Package api defines the contract between guest plugins and the UWB core.
package api

import "errors"

// Errors returned by a Core. Callers classify them with errors.Is; anything
// outside this set is treated as a generic failure.
var (
	ErrBadParameters       = errors.New("bad parameters")
	ErrDuplicatedSessionID = errors.New("duplicated session id")
	ErrMaxSessionsExceeded = errors.New("max sessions exceeded")
	ErrMaxRrRetryReached   = errors.New("max ranging round retry reached")
	ErrProtocolSpecific    = errors.New("protocol specific error")
	ErrRemoteRequest       = errors.New("remote request")
	ErrTimeout             = errors.New("timeout")
	ErrCommandRetry        = errors.New("command retry")
	ErrPacketTxError       = errors.New("packet tx error")
	ErrRegulationUwbOff    = errors.New("regulation uwb off")
	ErrUnknown             = errors.New("unknown error")
)
