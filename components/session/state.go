package session

import "sync"

// TransportAuth receives the authenticated flag whenever it changes so the
// transport layer can toggle its default auth headers.
type TransportAuth interface {
	ConfigureTransportAuth(authenticated bool)
}

// TransportAuthFunc adapts a function into a TransportAuth.
type TransportAuthFunc func(authenticated bool)

// ConfigureTransportAuth calls f.
func (f TransportAuthFunc) ConfigureTransportAuth(authenticated bool) { f(authenticated) }

type noopTransportAuth struct{}

func (noopTransportAuth) ConfigureTransportAuth(bool) {}

// State holds the current identity, the authenticated flag and the role and
// permission grants. It is created empty and only mutated through its methods.
type State struct {
	mu           sync.RWMutex
	user         *User
	authed       bool
	loginChecked bool
	generation   uint64
	transport    TransportAuth
}

// NewState builds an empty, logged-out state.
func NewState(transport TransportAuth) *State {
	if transport == nil {
		transport = noopTransportAuth{}
	}
	return &State{transport: transport}
}

// IsAuthenticated reports the authenticated flag alone.
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authed
}

// IsLoggedIn requires the authenticated flag and a usable identity.
func (s *State) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authed && s.user != nil && s.user.PK != 0
}

// SetAuthenticated toggles the flag and reconfigures transport auth.
func (s *State) SetAuthenticated(authed bool) {
	s.mu.Lock()
	s.authed = authed
	transport := s.transport
	s.mu.Unlock()
	transport.ConfigureTransportAuth(authed)
}

// SetUser replaces the identity. Passing nil drops it without touching the
// authenticated flag.
func (s *State) SetUser(user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user.clone()
}

// User returns a copy of the current identity, or nil.
func (s *State) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.clone()
}

// UserID returns the identity primary key, or 0.
func (s *State) UserID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return 0
	}
	return s.user.PK
}

// Username returns the display name of the current identity.
func (s *State) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.DisplayName()
}

// IsStaff reports the staff flag of the loaded identity.
func (s *State) IsStaff() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsStaff
}

// IsSuperuser reports the superuser flag of the loaded identity.
func (s *State) IsSuperuser() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsSuperuser
}

// HasRolePermission checks role -> action with the superuser short-circuit.
func (s *State) HasRolePermission(role, action string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	if s.user.IsSuperuser {
		return true
	}
	return s.user.Roles.Allows(role, action)
}

// HasModelPermission checks model -> action with the superuser short-circuit.
func (s *State) HasModelPermission(model, action string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	if s.user.IsSuperuser {
		return true
	}
	return s.user.Permissions.Allows(model, action)
}

func (s *State) HasViewRole(role string) bool   { return s.HasRolePermission(role, ActionView) }
func (s *State) HasAddRole(role string) bool    { return s.HasRolePermission(role, ActionAdd) }
func (s *State) HasChangeRole(role string) bool { return s.HasRolePermission(role, ActionChange) }
func (s *State) HasDeleteRole(role string) bool { return s.HasRolePermission(role, ActionDelete) }

func (s *State) HasViewPermission(model string) bool { return s.HasModelPermission(model, ActionView) }
func (s *State) HasAddPermission(model string) bool  { return s.HasModelPermission(model, ActionAdd) }
func (s *State) HasChangePermission(model string) bool {
	return s.HasModelPermission(model, ActionChange)
}
func (s *State) HasDeletePermission(model string) bool {
	return s.HasModelPermission(model, ActionDelete)
}

// LoginChecked reports whether a session check has completed at least once.
func (s *State) LoginChecked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loginChecked
}

// SetLoginChecked records the outcome of the initial session check.
func (s *State) SetLoginChecked(checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginChecked = checked
}

// Clear drops the identity and the authenticated flag in one step and
// invalidates any fetch still in flight.
func (s *State) Clear() {
	s.mu.Lock()
	s.user = nil
	s.authed = false
	s.generation++
	transport := s.transport
	s.mu.Unlock()
	transport.ConfigureTransportAuth(false)
}

// Generation returns the counter bumped by Clear. Fetches compare it before
// applying their results.
func (s *State) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// applyUser sets the identity only if gen is still current.
func (s *State) applyUser(gen uint64, user *User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.user = user.clone()
	return true
}

// applyRoles merges role detail into the loaded identity if gen is current.
func (s *State) applyRoles(gen uint64, detail RoleDetail) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen || s.user == nil {
		return false
	}
	s.user.Roles = GrantsFromLists(detail.Roles)
	s.user.Permissions = GrantsFromLists(detail.Permissions)
	s.user.IsStaff = detail.IsStaff
	s.user.IsSuperuser = detail.IsSuperuser
	return true
}

// clearIfCurrent clears the state unless a newer generation already owns it.
func (s *State) clearIfCurrent(gen uint64) {
	s.mu.RLock()
	current := s.generation == gen
	s.mu.RUnlock()
	if current {
		s.Clear()
	}
}

var _ Permissions = (*State)(nil)
