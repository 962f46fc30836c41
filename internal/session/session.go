// Package session holds the application's identity state: the current
// authenticated principal, or the explicitly entered offline/demo mode,
// or neither. The manager is created at startup, updated on auth-state
// changes and torn down on sign-out; interested parties subscribe to be
// told when the state changes.
package session

import "sync"

// Session identifies the authenticated principal. Records created in
// remote mode are stamped with UserID.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Listener is invoked after every session-state change.
type Listener func()

// Manager owns the current session state. Safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	current   *Session
	demoMode  bool
	listeners map[int]Listener
	nextID    int
	secret    []byte
}

// NewManager creates a manager with no active session. secret signs and
// verifies the bearer tokens minted for authenticated principals.
func NewManager(secret []byte) *Manager {
	return &Manager{
		listeners: make(map[int]Listener),
		secret:    secret,
	}
}

// Current returns a copy of the active session, or nil when signed out.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	s := *m.current
	return &s
}

// Authenticated reports whether a principal is signed in.
func (m *Manager) Authenticated() bool {
	return m.Current() != nil
}

// DemoMode reports whether offline/demo mode has been entered.
func (m *Manager) DemoMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.demoMode
}

// SignIn installs s as the active session. Entering a real session leaves
// demo mode. Re-installing the session that is already active is a no-op,
// so callers may sign in on every authenticated request.
func (m *Manager) SignIn(s Session) {
	m.mu.Lock()
	changed := m.current == nil || *m.current != s || m.demoMode
	m.current = &s
	m.demoMode = false
	m.mu.Unlock()
	if changed {
		m.notify()
	}
}

// EnterDemoMode switches to the local offline store. It has no effect
// while a principal is signed in.
func (m *Manager) EnterDemoMode() {
	m.mu.Lock()
	if m.current != nil {
		m.mu.Unlock()
		return
	}
	changed := !m.demoMode
	m.demoMode = true
	m.mu.Unlock()
	if changed {
		m.notify()
	}
}

// SignOut clears both the session and demo mode.
func (m *Manager) SignOut() {
	m.mu.Lock()
	changed := m.current != nil || m.demoMode
	m.current = nil
	m.demoMode = false
	m.mu.Unlock()
	if changed {
		m.notify()
	}
}

// Subscribe registers a listener for session-state changes and returns
// its unsubscribe function.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify() {
	m.mu.RLock()
	fns := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
