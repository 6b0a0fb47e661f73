package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	// ErrSuperseded is returned when a Clear or Logout happened while a fetch
	// was in flight; the fetched data was discarded.
	ErrSuperseded = errors.New("session: fetch superseded")
	// ErrNotAuthenticated is returned when the session check reports no session.
	ErrNotAuthenticated = errors.New("session: not authenticated")

	errMissingTransport = errors.New("session: transport not configured")
)

// RoleDetail is the payload of the roles endpoint.
type RoleDetail struct {
	Roles       map[string][]string
	Permissions map[string][]string
	IsStaff     bool
	IsSuperuser bool
}

// Transport performs the idempotent reads needed to hydrate a State.
type Transport interface {
	SessionStatus(ctx context.Context) (bool, error)
	CurrentUser(ctx context.Context) (*User, error)
	UserRoles(ctx context.Context) (RoleDetail, error)
}

// Fetcher runs the session -> identity -> roles pipeline against a State.
// Every failure clears the state; results from a superseded generation are
// dropped.
type Fetcher struct {
	state     *State
	transport Transport
	logger    *slog.Logger
	group     singleflight.Group
}

// NewFetcher wires a state to its transport. A nil logger uses slog.Default.
func NewFetcher(state *State, transport Transport, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{state: state, transport: transport, logger: logger}
}

// State exposes the state the fetcher writes to.
func (f *Fetcher) State() *State {
	return f.state
}

// Refresh hydrates the state. Concurrent callers share one in-flight fetch.
// The returned error is informational: the state is already fail-closed.
func (f *Fetcher) Refresh(ctx context.Context) error {
	if f.transport == nil || f.state == nil {
		return errMissingTransport
	}
	_, err, _ := f.group.Do("refresh", func() (any, error) {
		return nil, f.refresh(ctx)
	})
	return err
}

// Keep re-runs Refresh every interval while the state is not logged in, so a
// backend outage at startup does not leave the state cleared for good. It
// returns when ctx is done.
func (f *Fetcher) Keep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if f.state.IsLoggedIn() {
			continue
		}
		if err := f.Refresh(ctx); err != nil {
			f.logger.Warn("session refresh failed", slog.Any("error", err))
		}
	}
}

// Login marks the state authenticated after a successful credential
// exchange and loads identity and roles.
func (f *Fetcher) Login(ctx context.Context) error {
	f.state.SetAuthenticated(true)
	return f.Refresh(ctx)
}

// Logout clears the state and invalidates any in-flight fetch.
func (f *Fetcher) Logout(context.Context) {
	f.state.Clear()
}

func (f *Fetcher) refresh(ctx context.Context) error {
	gen := f.state.Generation()
	if !f.state.IsAuthenticated() {
		if err := f.checkSession(ctx, gen); err != nil {
			return err
		}
	}

	user, err := f.transport.CurrentUser(ctx)
	if err != nil || user == nil {
		f.fail(gen, "fetch user", err)
		if err == nil {
			err = errors.New("session: empty identity")
		}
		return fmt.Errorf("session: fetch user: %w", err)
	}
	if !f.state.applyUser(gen, user) {
		return ErrSuperseded
	}
	if !f.state.IsLoggedIn() {
		return nil
	}

	detail, err := f.transport.UserRoles(ctx)
	if err != nil {
		f.fail(gen, "fetch roles", err)
		return fmt.Errorf("session: fetch roles: %w", err)
	}
	if !f.state.applyRoles(gen, detail) {
		return ErrSuperseded
	}
	f.logger.Debug("session hydrated",
		slog.Int("user_id", user.PK),
		slog.Bool("superuser", detail.IsSuperuser),
	)
	return nil
}

func (f *Fetcher) checkSession(ctx context.Context, gen uint64) error {
	authed, err := f.transport.SessionStatus(ctx)
	f.state.SetLoginChecked(true)
	if err != nil {
		f.fail(gen, "session status", err)
		return fmt.Errorf("session: status: %w", err)
	}
	if !authed {
		f.fail(gen, "session status", ErrNotAuthenticated)
		return ErrNotAuthenticated
	}
	if !f.state.authenticateIf(gen) {
		return ErrSuperseded
	}
	return nil
}

func (f *Fetcher) fail(gen uint64, step string, err error) {
	f.logger.Debug("session cleared", slog.String("step", step), slog.Any("error", err))
	f.state.clearIfCurrent(gen)
}

// authenticateIf sets the authenticated flag only if gen is current.
func (s *State) authenticateIf(gen uint64) bool {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return false
	}
	s.authed = true
	transport := s.transport
	s.mu.Unlock()
	transport.ConfigureTransportAuth(true)
	return true
}
