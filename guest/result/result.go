// Package result translates UWB core outcomes into values that can cross the
// wasm boundary: a boolean, a signed status byte, or an optional value.
//
// An outcome is the (value, error) pair returned by an api.Core call. A nil
// error is success. Failures are logged once at error level and absorbed; no
// function in this package returns an error or panics.
package result

import (
	"errors"
	"fmt"

	"github.com/uwbwasm/uwbwasm/guest/api"
	"github.com/uwbwasm/uwbwasm/guest/logging"
	"github.com/uwbwasm/uwbwasm/uci"
	"go.uber.org/zap"
)

// Translator converts outcomes and reports failures to its logger.
// It holds no other state and is safe for concurrent use.
type Translator struct {
	logger *zap.Logger
}

// New returns a Translator that logs to logger. A nil logger discards logs.
func New(logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{logger: logger}
}

// Bool reports whether the outcome succeeded.
func (t *Translator) Bool(err error, label string) bool {
	if err != nil {
		t.logFailure(err, label)
		return false
	}
	return true
}

// Byte classifies the outcome and returns the status bits as a signed byte.
func (t *Translator) Byte(err error, label string) int8 {
	return t.Status(err, label).Byte()
}

// Status classifies the outcome into a UCI status code. Errors outside the
// known set map to uci.StatusFailed.
func (t *Translator) Status(err error, label string) uci.StatusCode {
	if err == nil {
		return uci.StatusOk
	}
	t.logFailure(err, label)

	switch {
	case errors.Is(err, api.ErrBadParameters):
		return uci.StatusInvalidParam
	case errors.Is(err, api.ErrMaxSessionsExceeded):
		return uci.StatusMaxSessionsExceeded
	case errors.Is(err, api.ErrCommandRetry):
		return uci.StatusCommandRetry
	case errors.Is(err, api.ErrRegulationUwbOff):
		return uci.StatusRegulationUwbOff
	default:
		return uci.StatusFailed
	}
}

// Option returns (v, true) on success and the zero value with false on failure.
func Option[T any](t *Translator, v T, err error, label string) (T, bool) {
	if err != nil {
		t.logFailure(err, label)
		var zero T
		return zero, false
	}
	return v, true
}

func (t *Translator) logFailure(err error, label string) {
	t.logger.Error(fmt.Sprintf("%s failed with %v", label, err),
		zap.String("label", label),
		zap.Error(err),
	)
}

var defaultTranslator = New(logging.NewHostBridgeLogger())

// Default returns the translator used by the package-level helpers. It logs
// through the host bridge.
func Default() *Translator {
	return defaultTranslator
}

// Bool is Default().Bool.
func Bool(err error, label string) bool {
	return defaultTranslator.Bool(err, label)
}

// Byte is Default().Byte.
func Byte(err error, label string) int8 {
	return defaultTranslator.Byte(err, label)
}
