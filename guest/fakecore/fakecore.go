// Package fakecore is an in-memory api.Core for example guests and tests. It
// keeps just enough session bookkeeping to produce every error the dispatcher
// has to translate.
package fakecore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/uwbwasm/uwbwasm/guest/api"
)

// DefaultMaxSessions matches the session limit of common UWB chips.
const DefaultMaxSessions = 5

// MaxSessions is the largest session count the core API can report.
const MaxSessions = 255

// Config configures a Core. It is delivered by the host as a generic map.
type Config struct {
	MaxSessions int    `mapstructure:"max_sessions"`
	CountryCode string `mapstructure:"country_code"`
}

// DecodeConfig decodes a host-provided config map, applying defaults.
func DecodeConfig(raw any) (Config, error) {
	cfg := Config{MaxSessions: DefaultMaxSessions}
	if raw == nil {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("fakecore: decode config: %w", err)
	}
	if cfg.MaxSessions <= 0 || cfg.MaxSessions > MaxSessions {
		return Config{}, fmt.Errorf("fakecore: max_sessions %d out of range: %w", cfg.MaxSessions, api.ErrBadParameters)
	}
	return cfg, nil
}

// Option customizes a Core.
type Option func(*Core)

// WithClock replaces the clock used by QueryUwbTimestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Core) {
		c.now = now
	}
}

var _ api.Core = (*Core)(nil)

// Core is the in-memory api.Core.
type Core struct {
	mu sync.Mutex

	maxSessions int
	country     api.CountryCode
	enabled     bool
	enabledAt   time.Time
	sessions    map[api.SessionID]api.SessionState
	now         func() time.Time
}

// New creates a disabled Core. An invalid country code in cfg is ignored and
// MaxSessions is clamped to 1..255.
func New(cfg Config, opts ...Option) *Core {
	switch {
	case cfg.MaxSessions <= 0:
		cfg.MaxSessions = DefaultMaxSessions
	case cfg.MaxSessions > MaxSessions:
		cfg.MaxSessions = MaxSessions
	}
	c := &Core{
		maxSessions: cfg.MaxSessions,
		sessions:    make(map[api.SessionID]api.SessionState),
		now:         time.Now,
	}
	if cc, err := api.ParseCountryCode(cfg.CountryCode); err == nil {
		c.country = cc
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionLimit returns the maximum number of open sessions.
func (c *Core) SessionLimit() int {
	return c.maxSessions
}

func (c *Core) Enable(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		c.enabled = true
		c.enabledAt = c.now()
	}
	return nil
}

func (c *Core) Disable(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled {
		return fmt.Errorf("disable: uwb not enabled: %w", api.ErrUnknown)
	}
	c.enabled = false
	clear(c.sessions)
	return nil
}

func (c *Core) InitSession(_ context.Context, id api.SessionID, typ api.SessionType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkRadio(); err != nil {
		return err
	}
	if _, ok := c.sessions[id]; ok {
		return fmt.Errorf("session %d: %w", id, api.ErrDuplicatedSessionID)
	}
	if len(c.sessions) >= c.maxSessions {
		return fmt.Errorf("session %d: %d sessions open: %w", id, len(c.sessions), api.ErrMaxSessionsExceeded)
	}
	c.sessions[id] = api.SessionStateInit
	return nil
}

func (c *Core) DeinitSession(_ context.Context, id api.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEnabled(); err != nil {
		return err
	}
	if _, ok := c.sessions[id]; !ok {
		return fmt.Errorf("session %d: %w", id, api.ErrBadParameters)
	}
	delete(c.sessions, id)
	return nil
}

func (c *Core) StartRanging(_ context.Context, id api.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkRadio(); err != nil {
		return err
	}
	state, ok := c.sessions[id]
	if !ok {
		return fmt.Errorf("session %d: %w", id, api.ErrBadParameters)
	}
	if state == api.SessionStateActive {
		return fmt.Errorf("session %d already active: %w", id, api.ErrProtocolSpecific)
	}
	c.sessions[id] = api.SessionStateActive
	return nil
}

func (c *Core) StopRanging(_ context.Context, id api.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEnabled(); err != nil {
		return err
	}
	state, ok := c.sessions[id]
	if !ok {
		return fmt.Errorf("session %d: %w", id, api.ErrBadParameters)
	}
	if state != api.SessionStateActive {
		return fmt.Errorf("session %d is %s: %w", id, state, api.ErrProtocolSpecific)
	}
	c.sessions[id] = api.SessionStateIdle
	return nil
}

func (c *Core) SessionCount(context.Context) (uint8, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEnabled(); err != nil {
		return 0, err
	}
	return uint8(len(c.sessions)), nil
}

func (c *Core) SessionState(_ context.Context, id api.SessionID) (api.SessionState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEnabled(); err != nil {
		return 0, err
	}
	state, ok := c.sessions[id]
	if !ok {
		return 0, fmt.Errorf("session %d: %w", id, api.ErrBadParameters)
	}
	return state, nil
}

// SetCountryCode applies a regulatory domain. Switching to "00" stops every
// active session.
func (c *Core) SetCountryCode(_ context.Context, code api.CountryCode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEnabled(); err != nil {
		return err
	}
	if _, err := api.ParseCountryCode(code.String()); err != nil {
		return err
	}
	c.country = code
	if code == api.CountryCodeOff {
		for id, state := range c.sessions {
			if state == api.SessionStateActive {
				c.sessions[id] = api.SessionStateIdle
			}
		}
	}
	return nil
}

func (c *Core) QueryUwbTimestamp(context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEnabled(); err != nil {
		return 0, err
	}
	return uint64(c.now().Sub(c.enabledAt).Microseconds()), nil
}

func (c *Core) checkEnabled() error {
	if !c.enabled {
		return fmt.Errorf("uwb not enabled: %w", api.ErrUnknown)
	}
	return nil
}

// checkRadio is checkEnabled plus the regulatory check for calls that transmit.
func (c *Core) checkRadio() error {
	if err := c.checkEnabled(); err != nil {
		return err
	}
	if c.country == api.CountryCodeOff {
		return fmt.Errorf("country code %s: %w", c.country, api.ErrRegulationUwbOff)
	}
	return nil
}
