package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeTransport struct {
	authed      bool
	statusErr   error
	user        *User
	userErr     error
	roles       RoleDetail
	rolesErr    error
	statusCalls int
	userCalls   int
	roleCalls   int
	beforeUser  func()
}

func (f *fakeTransport) SessionStatus(context.Context) (bool, error) {
	f.statusCalls++
	return f.authed, f.statusErr
}

func (f *fakeTransport) CurrentUser(context.Context) (*User, error) {
	f.userCalls++
	if f.beforeUser != nil {
		f.beforeUser()
	}
	return f.user, f.userErr
}

func (f *fakeTransport) UserRoles(context.Context) (RoleDetail, error) {
	f.roleCalls++
	return f.roles, f.rolesErr
}

func TestRefreshHydratesState(t *testing.T) {
	transport := &fakeTransport{
		authed: true,
		user:   &User{PK: 7, Username: "stock.clerk"},
		roles: RoleDetail{
			Roles:       map[string][]string{RoleStock: {ActionView, ActionChange}},
			Permissions: map[string][]string{ModelStockItem: {ActionView}},
			IsStaff:     true,
		},
	}
	var authCalls []bool
	state := NewState(TransportAuthFunc(func(authed bool) { authCalls = append(authCalls, authed) }))
	fetcher := NewFetcher(state, transport, nil)
	if err := fetcher.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if !state.IsLoggedIn() {
		t.Fatalf("expected logged in state")
	}
	if !state.HasChangeRole(RoleStock) || !state.IsStaff() {
		t.Fatalf("expected roles applied, got %+v", state.User())
	}
	if !state.LoginChecked() {
		t.Fatalf("expected login checked flag")
	}
	if len(authCalls) != 1 || !authCalls[0] {
		t.Fatalf("expected transport auth enabled once, got %v", authCalls)
	}
}

func TestRefreshSkipsSessionProbeWhenAuthenticated(t *testing.T) {
	transport := &fakeTransport{user: &User{PK: 1}}
	state := NewState(nil)
	fetcher := NewFetcher(state, transport, nil)
	if err := fetcher.Login(context.Background()); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if transport.statusCalls != 0 {
		t.Fatalf("expected no session check after login, got %d", transport.statusCalls)
	}
	if transport.roleCalls != 1 {
		t.Fatalf("expected roles fetched once, got %d", transport.roleCalls)
	}
}

func TestRefreshClearsWhenSessionMissing(t *testing.T) {
	transport := &fakeTransport{authed: false}
	state := NewState(nil)
	fetcher := NewFetcher(state, transport, nil)
	err := fetcher.Refresh(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if transport.userCalls != 0 {
		t.Fatalf("identity must not be fetched without a session")
	}
	if state.IsAuthenticated() {
		t.Fatalf("expected logged out state")
	}
}

func TestRefreshFailsClosedOnUserError(t *testing.T) {
	transport := &fakeTransport{authed: true, userErr: errors.New("timeout")}
	state := NewState(nil)
	fetcher := NewFetcher(state, transport, nil)
	if err := fetcher.Refresh(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if state.IsAuthenticated() || state.User() != nil {
		t.Fatalf("expected cleared state")
	}
	if transport.roleCalls != 0 {
		t.Fatalf("roles must not be fetched after identity failure")
	}
}

func TestRefreshSkipsRolesWithoutPrimaryKey(t *testing.T) {
	transport := &fakeTransport{authed: true, user: &User{Username: "ghost"}}
	state := NewState(nil)
	fetcher := NewFetcher(state, transport, nil)
	if err := fetcher.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if transport.roleCalls != 0 {
		t.Fatalf("expected roles skipped for identity without pk")
	}
	if state.IsLoggedIn() {
		t.Fatalf("identity without pk is not logged in")
	}
}

func TestRefreshFailsClosedOnRolesError(t *testing.T) {
	transport := &fakeTransport{authed: true, user: &User{PK: 9}, rolesErr: errors.New("boom")}
	state := NewState(nil)
	fetcher := NewFetcher(state, transport, nil)
	if err := fetcher.Refresh(context.Background()); err == nil {
		t.Fatalf("expected roles error")
	}
	if state.User() != nil || state.IsAuthenticated() {
		t.Fatalf("expected whole session cleared, not partial")
	}
}

func TestLogoutDuringFetchDiscardsResult(t *testing.T) {
	state := NewState(nil)
	transport := &fakeTransport{authed: true, user: &User{PK: 11}}
	fetcher := NewFetcher(state, transport, nil)
	transport.beforeUser = func() {
		fetcher.Logout(context.Background())
	}
	err := fetcher.Refresh(context.Background())
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if state.User() != nil || state.IsLoggedIn() {
		t.Fatalf("superseded fetch must not repopulate the state")
	}
	if transport.roleCalls != 0 {
		t.Fatalf("roles must not be fetched after supersede")
	}
}

func TestRefreshRequiresTransport(t *testing.T) {
	fetcher := NewFetcher(NewState(nil), nil, nil)
	if err := fetcher.Refresh(context.Background()); err == nil {
		t.Fatalf("expected missing transport error")
	}
}

type recoveringTransport struct {
	calls atomic.Int32
}

func (r *recoveringTransport) SessionStatus(context.Context) (bool, error) {
	if r.calls.Add(1) == 1 {
		return false, errors.New("backend unavailable")
	}
	return true, nil
}

func (r *recoveringTransport) CurrentUser(context.Context) (*User, error) {
	return &User{PK: 5, Username: "svc"}, nil
}

func (r *recoveringTransport) UserRoles(context.Context) (RoleDetail, error) {
	return RoleDetail{Roles: map[string][]string{RoleStock: {ActionView}}}, nil
}

func TestKeepRecoversAfterFailedRefresh(t *testing.T) {
	state := NewState(nil)
	transport := &recoveringTransport{}
	fetcher := NewFetcher(state, transport, nil)
	if err := fetcher.Refresh(context.Background()); err == nil {
		t.Fatalf("expected first refresh to fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		fetcher.Keep(ctx, 5*time.Millisecond)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !state.IsLoggedIn() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if !state.IsLoggedIn() || !state.HasViewRole(RoleStock) {
		t.Fatalf("expected state recovered by Keep")
	}
}

func TestKeepStopsWithContext(t *testing.T) {
	fetcher := NewFetcher(NewState(nil), &recoveringTransport{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fetcher.Keep(ctx, time.Hour)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Keep did not return after cancel")
	}
}
