// Package session tracks whether the client holds a bearer token.
//
// A session is either Anonymous or Authenticated(token). The only transitions are
// Login (Anonymous -> Authenticated), and Logout or Invalidate (Authenticated -> Anonymous).
package session

import (
	"errors"
	"fmt"
	"sync"
)

// State is the tagged union {Anonymous, Authenticated(token)}
type State struct {
	token         string
	authenticated bool
}

// Anonymous returns the state with no token
func Anonymous() State {
	return State{}
}

// Authenticated returns the state holding token
func Authenticated(token string) State {
	return State{token: token, authenticated: true}
}

// IsAuthenticated reports whether the state carries a token
func (s State) IsAuthenticated() bool {
	return s.authenticated
}

// Token returns the bearer token and whether one is present
func (s State) Token() (string, bool) {
	return s.token, s.authenticated
}

func (s State) String() string {
	if s.authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Manager owns the token slot of a TokenStore
type Manager struct {
	mu    sync.Mutex
	store TokenStore
}

// NewManager creates a session manager backed by store
func NewManager(store TokenStore) *Manager {
	return &Manager{store: store}
}

// State reads the current state from the store
func (m *Manager) State() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) load() (State, error) {
	token, err := m.store.LoadToken()
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return Anonymous(), nil
		}
		return Anonymous(), err
	}
	return Authenticated(token), nil
}

// Token returns the stored token, or "" when anonymous
func (m *Manager) Token() (string, error) {
	state, err := m.State()
	if err != nil {
		return "", err
	}
	token, _ := state.Token()
	return token, nil
}

// IsAuthenticated is a presence check; store errors count as anonymous
func (m *Manager) IsAuthenticated() bool {
	state, err := m.State()
	return err == nil && state.IsAuthenticated()
}

// Login moves the session to Authenticated(token)
func (m *Manager) Login(token string) error {
	if token == "" {
		return fmt.Errorf("empty token")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.SaveToken(token)
}

// Logout moves the session to Anonymous
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.DeleteToken()
}

// Invalidate clears the token after the server rejected it.
// It returns true only for the call that performed the Authenticated -> Anonymous
// transition, so concurrent rejections notify once.
func (m *Manager) Invalidate() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.load()
	if err != nil {
		// Unreadable store: still try to clear it.
		return false, m.store.DeleteToken()
	}
	if !state.IsAuthenticated() {
		return false, nil
	}
	if err := m.store.DeleteToken(); err != nil {
		return false, err
	}
	return true, nil
}

// Store kinds accepted by NewStore
const (
	StoreKeyring = "keyring"
	StoreFile    = "file"
	StoreMemory  = "memory"
)

// NewStore builds the TokenStore named by kind
func NewStore(kind, apiURL, filePath string) (TokenStore, error) {
	switch kind {
	case "", StoreKeyring:
		return NewKeyringStore(apiURL), nil
	case StoreFile:
		if filePath == "" {
			p, err := DefaultTokenFilePath()
			if err != nil {
				return nil, err
			}
			filePath = p
		}
		return NewFileStore(filePath, apiURL), nil
	case StoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown token store %q, must be one of: keyring, file, memory", kind)
	}
}
