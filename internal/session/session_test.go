package session

import (
	"testing"
	"time"
)

func newTestManager() *Manager {
	return NewManager([]byte("test-secret"))
}

func TestSignInAndOut(t *testing.T) {
	m := newTestManager()

	if m.Authenticated() || m.DemoMode() {
		t.Fatal("fresh manager should have no active state")
	}

	m.SignIn(Session{UserID: "user-1", Email: "a@a.com"})
	if s := m.Current(); s == nil || s.UserID != "user-1" || s.Email != "a@a.com" {
		t.Fatalf("Current() = %+v after sign-in", s)
	}

	m.SignOut()
	if m.Authenticated() || m.DemoMode() {
		t.Error("sign-out should clear all state")
	}
}

func TestDemoMode(t *testing.T) {
	m := newTestManager()

	m.EnterDemoMode()
	if !m.DemoMode() {
		t.Fatal("EnterDemoMode did not take effect")
	}

	// A real session replaces demo mode.
	m.SignIn(Session{UserID: "user-1"})
	if m.DemoMode() {
		t.Error("sign-in should leave demo mode")
	}

	// Demo mode cannot be entered while signed in.
	m.EnterDemoMode()
	if m.DemoMode() {
		t.Error("demo mode entered while authenticated")
	}
}

func TestSubscribe(t *testing.T) {
	m := newTestManager()

	var calls int
	unsubscribe := m.Subscribe(func() { calls++ })

	m.SignIn(Session{UserID: "user-1"})
	m.SignOut()
	if calls != 2 {
		t.Errorf("listener called %d times, want 2", calls)
	}

	// Repeated sign-out is not a change.
	m.SignOut()
	if calls != 2 {
		t.Errorf("no-op sign-out notified listeners, calls = %d", calls)
	}

	// Neither is re-installing the active session.
	m.SignIn(Session{UserID: "user-1"})
	m.SignIn(Session{UserID: "user-1"})
	if calls != 3 {
		t.Errorf("repeated sign-in notified listeners, calls = %d", calls)
	}
	m.SignOut()

	unsubscribe()
	m.SignIn(Session{UserID: "user-2"})
	if calls != 4 {
		t.Errorf("listener called after unsubscribe, calls = %d", calls)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.IssueToken(Session{UserID: "user-1", Email: "a@a.com"}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	s, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if s.UserID != "user-1" || s.Email != "a@a.com" {
		t.Errorf("parsed session = %+v", s)
	}
}

func TestParseTokenRejectsBadInput(t *testing.T) {
	m := newTestManager()

	if _, err := m.ParseToken("not-a-token"); err == nil {
		t.Error("garbage token accepted")
	}

	expired, err := m.IssueToken(Session{UserID: "user-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if _, err := m.ParseToken(expired); err == nil {
		t.Error("expired token accepted")
	}

	other := NewManager([]byte("different-secret"))
	foreign, err := other.IssueToken(Session{UserID: "user-1"}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if _, err := m.ParseToken(foreign); err == nil {
		t.Error("token signed with another secret accepted")
	}
}
