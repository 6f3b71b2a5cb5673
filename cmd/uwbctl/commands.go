package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/uwbwasm/uwbwasm/guest/api"
	"github.com/uwbwasm/uwbwasm/uci"
)

// client is the subset of *uwbhost.Guest the commands use.
type client interface {
	DoInitialize(ctx context.Context) (bool, error)
	DoDeinitialize(ctx context.Context) (bool, error)
	SessionInit(ctx context.Context, id api.SessionID, typ api.SessionType) (uci.StatusCode, error)
	SessionDeinit(ctx context.Context, id api.SessionID) (uci.StatusCode, error)
	RangingStart(ctx context.Context, id api.SessionID) (uci.StatusCode, error)
	RangingStop(ctx context.Context, id api.SessionID) (uci.StatusCode, error)
	SetCountryCode(ctx context.Context, code string) (uci.StatusCode, error)
	SessionCount(ctx context.Context) (uint8, bool, error)
	SessionState(ctx context.Context, id api.SessionID) (api.SessionState, bool, error)
	QueryUwbTimestamp(ctx context.Context) (uint64, bool, error)
}

var (
	errUsage       = errors.New("usage")
	errFailed      = errors.New("operation failed")
	errUnavailable = errors.New("no value returned")
)

type command struct {
	name  string
	usage string
	help  string
	nargs int
	run   func(ctx context.Context, c client, args []string, w io.Writer) error
}

var commands = []command{
	{"init", "init", "enable the UWB core", 0, runBool((client).DoInitialize)},
	{"deinit", "deinit", "disable the UWB core", 0, runBool((client).DoDeinitialize)},
	{"session-init", "session-init <id> <type>", "open a session", 2, runSessionInit},
	{"session-deinit", "session-deinit <id>", "close a session", 1, runSessionStatus((client).SessionDeinit)},
	{"start", "start <id>", "start ranging", 1, runSessionStatus((client).RangingStart)},
	{"stop", "stop <id>", "stop ranging", 1, runSessionStatus((client).RangingStop)},
	{"count", "count", "print the number of sessions", 0, runCount},
	{"state", "state <id>", "print the state of a session", 1, runState},
	{"country", "country <XX>", "set the country code, 00 turns UWB off", 1, runCountry},
	{"timestamp", "timestamp", "print the UWBS timestamp in microseconds", 0, runTimestamp},
}

// run dispatches args[0] to its command.
func run(ctx context.Context, c client, args []string, w io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		if len(args)-1 != cmd.nargs {
			return fmt.Errorf("%w: %s", errUsage, cmd.usage)
		}
		return cmd.run(ctx, c, args[1:], w)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func parseSessionID(s string) (api.SessionID, error) {
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: session id %q: %v", errUsage, s, err)
	}
	return api.SessionID(id), nil
}

func runBool(fn func(client, context.Context) (bool, error)) func(context.Context, client, []string, io.Writer) error {
	return func(ctx context.Context, c client, _ []string, w io.Writer) error {
		ok, err := fn(c, ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, ok)
		if !ok {
			return errFailed
		}
		return nil
	}
}

func printStatus(w io.Writer, status uci.StatusCode) error {
	fmt.Fprintf(w, "%s (0x%02x)\n", status, uint8(status))
	return status.Err()
}

func runSessionStatus(fn func(client, context.Context, api.SessionID) (uci.StatusCode, error)) func(context.Context, client, []string, io.Writer) error {
	return func(ctx context.Context, c client, args []string, w io.Writer) error {
		id, err := parseSessionID(args[0])
		if err != nil {
			return err
		}
		status, err := fn(c, ctx, id)
		if err != nil {
			return err
		}
		return printStatus(w, status)
	}
}

func runSessionInit(ctx context.Context, c client, args []string, w io.Writer) error {
	id, err := parseSessionID(args[0])
	if err != nil {
		return err
	}
	typ, err := strconv.ParseUint(args[1], 0, 8)
	if err != nil {
		return fmt.Errorf("%w: session type %q: %v", errUsage, args[1], err)
	}
	status, err := c.SessionInit(ctx, id, api.SessionType(typ))
	if err != nil {
		return err
	}
	return printStatus(w, status)
}

func runCountry(ctx context.Context, c client, args []string, w io.Writer) error {
	status, err := c.SetCountryCode(ctx, args[0])
	if err != nil {
		return err
	}
	return printStatus(w, status)
}

func runCount(ctx context.Context, c client, _ []string, w io.Writer) error {
	count, ok, err := c.SessionCount(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errUnavailable
	}
	fmt.Fprintln(w, count)
	return nil
}

func runState(ctx context.Context, c client, args []string, w io.Writer) error {
	id, err := parseSessionID(args[0])
	if err != nil {
		return err
	}
	state, ok, err := c.SessionState(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errUnavailable
	}
	fmt.Fprintln(w, state)
	return nil
}

func runTimestamp(ctx context.Context, c client, _ []string, w io.Writer) error {
	ts, ok, err := c.QueryUwbTimestamp(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errUnavailable
	}
	fmt.Fprintln(w, ts)
	return nil
}
