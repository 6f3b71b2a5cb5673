package result

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uwbwasm/uwbwasm/guest/api"
	"github.com/uwbwasm/uwbwasm/uci"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedTranslator() (*Translator, *observer.ObservedLogs) {
	core, observed := observer.New(zapcore.DebugLevel)
	return New(zap.New(core)), observed
}

func TestBool(t *testing.T) {
	tr, observed := newObservedTranslator()

	assert.True(t, tr.Bool(nil, "Error!"))
	assert.Equal(t, 0, observed.Len(), "success must not log")

	assert.False(t, tr.Bool(api.ErrBadParameters, "Error!"))
	logs := observed.TakeAll()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
	assert.Equal(t, "Error! failed with bad parameters", logs[0].Message)
	assert.Equal(t, "Error!", logs[0].ContextMap()["label"])
	assert.Equal(t, "bad parameters", logs[0].ContextMap()["error"])
}

func TestBoolAnyPayload(t *testing.T) {
	tr, _ := newObservedTranslator()

	_, err := func() (int, error) { return 5, nil }()
	assert.True(t, tr.Bool(err, "Count"))

	_, err = func() (api.SessionState, error) {
		return 0, fmt.Errorf("session 3: %w", api.ErrTimeout)
	}()
	assert.False(t, tr.Bool(err, "SessionState"))
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want uci.StatusCode
	}{
		{"success", nil, uci.StatusOk},
		{"bad parameters", api.ErrBadParameters, uci.StatusInvalidParam},
		{"max sessions exceeded", api.ErrMaxSessionsExceeded, uci.StatusMaxSessionsExceeded},
		{"command retry", api.ErrCommandRetry, uci.StatusCommandRetry},
		{"regulation uwb off", api.ErrRegulationUwbOff, uci.StatusRegulationUwbOff},
		{"duplicated session id", api.ErrDuplicatedSessionID, uci.StatusFailed},
		{"max rr retry reached", api.ErrMaxRrRetryReached, uci.StatusFailed},
		{"protocol specific", api.ErrProtocolSpecific, uci.StatusFailed},
		{"remote request", api.ErrRemoteRequest, uci.StatusFailed},
		{"timeout", api.ErrTimeout, uci.StatusFailed},
		{"packet tx error", api.ErrPacketTxError, uci.StatusFailed},
		{"unknown", api.ErrUnknown, uci.StatusFailed},
		{"foreign error", errors.New("spi bus reset"), uci.StatusFailed},
		{"wrapped bad parameters", fmt.Errorf("session 9: %w", api.ErrBadParameters), uci.StatusInvalidParam},
		{"joined regulation off", errors.Join(errors.New("ctx"), api.ErrRegulationUwbOff), uci.StatusRegulationUwbOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, observed := newObservedTranslator()

			assert.Equal(t, tt.want, tr.Status(tt.err, "Test"))
			if tt.err == nil {
				assert.Equal(t, 0, observed.Len())
			} else {
				assert.Equal(t, 1, observed.Len())
			}
		})
	}
}

func TestByte(t *testing.T) {
	tr, _ := newObservedTranslator()

	assert.Equal(t, uci.StatusOk.Byte(), tr.Byte(nil, "Test"))
	assert.Equal(t, uci.StatusInvalidParam.Byte(), tr.Byte(api.ErrBadParameters, "Test"))
	assert.Equal(t, uci.StatusMaxSessionsExceeded.Byte(), tr.Byte(api.ErrMaxSessionsExceeded, "Test"))
	assert.Equal(t, uci.StatusCommandRetry.Byte(), tr.Byte(api.ErrCommandRetry, "Test"))
	assert.Equal(t, uci.StatusRegulationUwbOff.Byte(), tr.Byte(api.ErrRegulationUwbOff, "Test"))
	assert.Equal(t, uci.StatusFailed.Byte(), tr.Byte(api.ErrDuplicatedSessionID, "Test"))

	assert.Equal(t, int8(0x14), tr.Byte(api.ErrMaxSessionsExceeded, "Test"))
	assert.Equal(t, int8(0x53), tr.Byte(api.ErrRegulationUwbOff, "Test"))
}

func TestOption(t *testing.T) {
	tr, observed := newObservedTranslator()

	v, ok := Option(tr, 42, nil, "Operation")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 0, observed.Len())

	v, ok = Option(tr, 42, api.ErrBadParameters, "Operation")
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Equal(t, 1, observed.Len())

	state, ok := Option(tr, api.SessionStateActive, api.ErrTimeout, "SessionState")
	assert.False(t, ok)
	assert.Equal(t, api.SessionStateInit, state)
}

func TestIdempotent(t *testing.T) {
	tr, observed := newObservedTranslator()
	err := fmt.Errorf("init: %w", api.ErrCommandRetry)

	assert.Equal(t, tr.Byte(err, "SessionInit"), tr.Byte(err, "SessionInit"))
	assert.Equal(t, tr.Bool(err, "SessionInit"), tr.Bool(err, "SessionInit"))

	first, firstOK := Option(tr, "a", err, "SessionInit")
	second, secondOK := Option(tr, "a", err, "SessionInit")
	assert.Equal(t, first, second)
	assert.Equal(t, firstOK, secondOK)

	assert.Equal(t, 6, observed.Len())
}

func TestNilLogger(t *testing.T) {
	tr := New(nil)
	assert.NotPanics(t, func() {
		assert.False(t, tr.Bool(api.ErrUnknown, "DoInitialize"))
		assert.Equal(t, uci.StatusFailed, tr.Status(api.ErrUnknown, "DoInitialize"))
	})
}

func TestConcurrentUse(t *testing.T) {
	tr, observed := newObservedTranslator()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, uci.StatusMaxSessionsExceeded, tr.Status(api.ErrMaxSessionsExceeded, "SessionInit"))
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, observed.Len())
}

func TestDefaultHelpers(t *testing.T) {
	assert.NotNil(t, Default())
	assert.True(t, Bool(nil, "DoInitialize"))
	assert.Equal(t, uci.StatusOk.Byte(), Byte(nil, "SessionInit"))
}
