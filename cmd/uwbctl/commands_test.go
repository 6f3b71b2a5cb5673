package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uwbwasm/uwbwasm/guest/api"
	"github.com/uwbwasm/uwbwasm/uci"
)

type fakeClient struct {
	status  uci.StatusCode
	ok      bool
	err     error
	lastID  api.SessionID
	lastTyp api.SessionType
	country string
}

func (f *fakeClient) DoInitialize(context.Context) (bool, error)   { return f.ok, f.err }
func (f *fakeClient) DoDeinitialize(context.Context) (bool, error) { return f.ok, f.err }

func (f *fakeClient) SessionInit(_ context.Context, id api.SessionID, typ api.SessionType) (uci.StatusCode, error) {
	f.lastID, f.lastTyp = id, typ
	return f.status, f.err
}

func (f *fakeClient) SessionDeinit(_ context.Context, id api.SessionID) (uci.StatusCode, error) {
	f.lastID = id
	return f.status, f.err
}

func (f *fakeClient) RangingStart(_ context.Context, id api.SessionID) (uci.StatusCode, error) {
	f.lastID = id
	return f.status, f.err
}

func (f *fakeClient) RangingStop(_ context.Context, id api.SessionID) (uci.StatusCode, error) {
	f.lastID = id
	return f.status, f.err
}

func (f *fakeClient) SetCountryCode(_ context.Context, code string) (uci.StatusCode, error) {
	f.country = code
	return f.status, f.err
}

func (f *fakeClient) SessionCount(context.Context) (uint8, bool, error) { return 2, f.ok, f.err }

func (f *fakeClient) SessionState(_ context.Context, id api.SessionID) (api.SessionState, bool, error) {
	f.lastID = id
	return api.SessionStateActive, f.ok, f.err
}

func (f *fakeClient) QueryUwbTimestamp(context.Context) (uint64, bool, error) { return 1500, f.ok, f.err }

func TestRunUsage(t *testing.T) {
	ctx := context.Background()
	c := &fakeClient{ok: true}

	tests := [][]string{
		nil,
		{"reboot"},
		{"start"},
		{"session-init", "1"},
		{"start", "abc"},
		{"session-init", "1", "300"},
	}
	for _, args := range tests {
		err := run(ctx, c, args, &bytes.Buffer{})
		assert.ErrorIs(t, err, errUsage, "args %v", args)
	}
}

func TestRunStatusCommands(t *testing.T) {
	ctx := context.Background()

	var out bytes.Buffer
	c := &fakeClient{status: uci.StatusOk}
	require.NoError(t, run(ctx, c, []string{"session-init", "0x10", "1"}, &out))
	assert.Equal(t, "OK (0x00)\n", out.String())
	assert.Equal(t, api.SessionID(16), c.lastID)
	assert.Equal(t, api.SessionType(1), c.lastTyp)

	out.Reset()
	c = &fakeClient{status: uci.StatusMaxSessionsExceeded}
	err := run(ctx, c, []string{"start", "7"}, &out)
	var statusErr *uci.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, uci.StatusMaxSessionsExceeded, statusErr.Code)
	assert.Equal(t, "MAX_SESSIONS_EXCEEDED (0x14)\n", out.String())
	assert.Equal(t, api.SessionID(7), c.lastID)

	out.Reset()
	c = &fakeClient{status: uci.StatusRegulationUwbOff}
	assert.Error(t, run(ctx, c, []string{"country", "00"}, &out))
	assert.Equal(t, "00", c.country)
	assert.Equal(t, "REGULATION_UWB_OFF (0x53)\n", out.String())
}

func TestRunBoolCommands(t *testing.T) {
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, &fakeClient{ok: true}, []string{"init"}, &out))
	assert.Equal(t, "true\n", out.String())

	out.Reset()
	assert.ErrorIs(t, run(ctx, &fakeClient{}, []string{"deinit"}, &out), errFailed)
	assert.Equal(t, "false\n", out.String())
}

func TestRunQueries(t *testing.T) {
	ctx := context.Background()

	var out bytes.Buffer
	c := &fakeClient{ok: true}
	require.NoError(t, run(ctx, c, []string{"count"}, &out))
	require.NoError(t, run(ctx, c, []string{"state", "3"}, &out))
	require.NoError(t, run(ctx, c, []string{"timestamp"}, &out))
	assert.Equal(t, "2\nACTIVE\n1500\n", out.String())

	c = &fakeClient{}
	assert.ErrorIs(t, run(ctx, c, []string{"count"}, &out), errUnavailable)
	assert.ErrorIs(t, run(ctx, c, []string{"state", "3"}, &out), errUnavailable)
	assert.ErrorIs(t, run(ctx, c, []string{"timestamp"}, &out), errUnavailable)
}

func TestRunPropagatesGuestErrors(t *testing.T) {
	trap := errors.New("wasm: uwb_ranging_stop: unreachable")
	err := run(context.Background(), &fakeClient{err: trap}, []string{"stop", "1"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, trap)
}

func TestNewLoggerWithFile(t *testing.T) {
	logger, err := newLogger(t.TempDir() + "/uwbctl.log")
	require.NoError(t, err)
	logger.Info("hello")
	assert.NoError(t, logger.Sync())
}
