package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nazcraft_server/internal/logger"
	"nazcraft_server/internal/types"
)

var (
	ErrMissingField        = errors.New("all fields are required")
	ErrPasswordMismatch    = errors.New("passwords don't match")
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrUnknownRegistration = errors.New("registration not found or already verified")
	ErrInvalidCredentials  = errors.New("invalid credentials or user not found")
	ErrNotSignedIn         = errors.New("not signed in")
	ErrNoGeneratedSite     = errors.New("no site has been generated yet")
)

const (
	adminUserID      = "admin-1"
	adminDisplayName = "Nazcorp Admin"
	adminAddress     = "Headquarters"
	adminPhone       = "N/A"
)

// AdminCredential is the single hardcoded admin login of the mock auth flow.
type AdminCredential struct {
	Email    string
	Password string
}

// SignupForm is what the sign-up page collects.
type SignupForm struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	Password        string
	ConfirmPassword string
}

// AuthState mirrors what the UI needs to render the header and gate pages.
type AuthState struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
	IsAdmin         bool  `json:"isAdmin"`
}

type snapshot struct {
	Auth  AuthState `json:"auth"`
	Users []User    `json:"users"`
}

// Session is the application's whole local state: registered users, who is
// signed in, pending sign-ups and the last generated site. The shell loads
// it once at start and hands the pointer down; every state change is saved
// back to path. Pending sign-ups and the last site live in memory only.
type Session struct {
	mu       sync.RWMutex
	path     string
	admin    AdminCredential
	users    []User
	auth     AuthState
	pending  map[string]User
	lastSite *types.GeneratedSite
	now      func() time.Time
	log      logger.Logger
}

// Load reads the session file at path. A missing file yields an empty,
// signed-out session.
func Load(path string, admin AdminCredential, log logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Session{
		path:    path,
		admin:   admin,
		pending: map[string]User{},
		now:     time.Now,
		log:     log.With(map[string]interface{}{"component": "session"}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Info("no session file yet, starting empty", map[string]interface{}{"path": path})
			return s, nil
		}
		return nil, fmt.Errorf("error reading session file: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unable to decode session file %s: %w", path, err)
	}
	s.users = snap.Users
	s.auth = snap.Auth
	if s.auth.User == nil {
		s.auth = AuthState{}
	}

	s.log.Info("session loaded", map[string]interface{}{
		"path":     path,
		"users":    len(s.users),
		"signedIn": s.auth.IsAuthenticated,
	})
	return s, nil
}

// Save writes users and auth state to disk.
func (s *Session) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked()
}

func (s *Session) saveLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(snapshot{Auth: s.auth, Users: s.users}, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode session: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}
	if err := writeFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Signup validates the form and parks the new user until Verify is called.
// It returns the pending registration id.
func (s *Session) Signup(form SignupForm) (string, error) {
	form = trimForm(form)
	if form.Name == "" || form.Email == "" || form.Phone == "" || form.Address == "" || form.Password == "" {
		return "", ErrMissingField
	}
	if form.Password != form.ConfirmPassword {
		return "", ErrPasswordMismatch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findLocked(form.Email); ok || strings.EqualFold(form.Email, s.admin.Email) {
		return "", ErrEmailTaken
	}

	id := uuid.New().String()
	s.pending[id] = User{
		ID:      uuid.New().String(),
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Address: form.Address,
		Role:    RoleUser,
	}
	s.log.Info("sign-up awaiting verification", map[string]interface{}{"registrationId": id})
	return id, nil
}

// Verify commits a pending sign-up, registers the user and signs them in.
func (s *Session) Verify(registrationID string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.pending[registrationID]
	if !ok {
		return User{}, ErrUnknownRegistration
	}
	delete(s.pending, registrationID)

	if _, taken := s.findLocked(u.Email); taken {
		return User{}, ErrEmailTaken
	}

	u.CreatedAt = s.now().UTC()
	s.users = append(s.users, u)
	s.signInLocked(u)

	if err := s.saveLocked(); err != nil {
		return User{}, err
	}
	s.log.Info("user registered", map[string]interface{}{"userId": u.ID})
	return u, nil
}

// Login signs in the admin when the configured credential matches, otherwise
// any registered user by email. Passwords of regular users are not checked;
// this is a mock flow.
func (s *Session) Login(email, password string) (User, error) {
	email = strings.TrimSpace(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	var u User
	switch {
	case s.admin.Email != "" && strings.EqualFold(email, s.admin.Email) && password == s.admin.Password:
		u = User{
			ID:        adminUserID,
			Name:      adminDisplayName,
			Email:     s.admin.Email,
			Phone:     adminPhone,
			Address:   adminAddress,
			Role:      RoleAdmin,
			CreatedAt: s.now().UTC(),
		}
	default:
		found, ok := s.findLocked(email)
		if !ok {
			return User{}, ErrInvalidCredentials
		}
		u = found
	}

	s.signInLocked(u)
	if err := s.saveLocked(); err != nil {
		return User{}, err
	}
	s.log.Info("signed in", map[string]interface{}{"userId": u.ID, "role": string(u.Role)})
	return u, nil
}

// Logout clears the signed-in user and the last generated site.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auth = AuthState{}
	s.lastSite = nil
	return s.saveLocked()
}

// State returns a copy of the auth state.
func (s *Session) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.auth
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.IsAuthenticated
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.IsAdmin
}

// Users lists registered users in registration order.
func (s *Session) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

// SetLastSite keeps site for preview and download. It requires a signed-in user.
func (s *Session) SetLastSite(site types.GeneratedSite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsAuthenticated {
		return ErrNotSignedIn
	}
	s.lastSite = &site
	return nil
}

func (s *Session) LastSite() (types.GeneratedSite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastSite == nil {
		return types.GeneratedSite{}, ErrNoGeneratedSite
	}
	return *s.lastSite, nil
}

func (s *Session) signInLocked(u User) {
	s.auth = AuthState{User: &u, IsAuthenticated: true, IsAdmin: u.Role == RoleAdmin}
	s.lastSite = nil
}

func (s *Session) findLocked(email string) (User, bool) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return User{}, false
}

func trimForm(f SignupForm) SignupForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	return f
}
