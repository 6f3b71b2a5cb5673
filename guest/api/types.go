package api

import (
	"context"
	"fmt"
)

// SessionID identifies a UWB session on the device.
type SessionID uint32

// SessionType is the UCI session type (ranging, data transfer, ...).
type SessionType uint8

// SessionState is the UCI session state reported by the device.
type SessionState uint8

const (
	SessionStateInit SessionState = iota
	SessionStateDeinit
	SessionStateActive
	SessionStateIdle
)

func (s SessionState) String() string {
	switch s {
	case SessionStateInit:
		return "INIT"
	case SessionStateDeinit:
		return "DEINIT"
	case SessionStateActive:
		return "ACTIVE"
	case SessionStateIdle:
		return "IDLE"
	default:
		return fmt.Sprintf("SessionState(%d)", uint8(s))
	}
}

// CountryCode is an ISO 3166-1 alpha-2 code. "00" disables UWB for regulatory reasons.
type CountryCode [2]byte

// CountryCodeOff is the code that turns the UWB radio off.
var CountryCodeOff = CountryCode{'0', '0'}

// ParseCountryCode validates s and returns it as a CountryCode.
func ParseCountryCode(s string) (CountryCode, error) {
	if len(s) != 2 {
		return CountryCode{}, fmt.Errorf("country code %q: %w", s, ErrBadParameters)
	}
	cc := CountryCode{s[0], s[1]}
	if cc == CountryCodeOff {
		return cc, nil
	}
	for _, c := range cc {
		if c < 'A' || c > 'Z' {
			return CountryCode{}, fmt.Errorf("country code %q: %w", s, ErrBadParameters)
		}
	}
	return cc, nil
}

func (c CountryCode) String() string {
	return string(c[:])
}

// Core is the UWB core library consumed by the guest dispatcher. Every call
// reports failure through one of the sentinel errors in this package, possibly
// wrapped.
type Core interface {
	// Enable powers up the UWB subsystem.
	Enable(ctx context.Context) error
	// Disable powers down the UWB subsystem and drops all sessions.
	Disable(ctx context.Context) error

	InitSession(ctx context.Context, id SessionID, typ SessionType) error
	DeinitSession(ctx context.Context, id SessionID) error
	StartRanging(ctx context.Context, id SessionID) error
	StopRanging(ctx context.Context, id SessionID) error

	SessionCount(ctx context.Context) (uint8, error)
	SessionState(ctx context.Context, id SessionID) (SessionState, error)

	SetCountryCode(ctx context.Context, code CountryCode) error
	// QueryUwbTimestamp returns the UWBS timestamp in microseconds.
	QueryUwbTimestamp(ctx context.Context) (uint64, error)
}
