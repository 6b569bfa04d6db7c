package services

import (
	"testing"
	"time"

	"github.com/rpupo63/shooting-roster/config"
	"github.com/rpupo63/shooting-roster/errs"
	"golang.org/x/crypto/bcrypt"
)

func newTestSessions(t *testing.T, now *time.Time) *SessionManager {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.SessionConfig{
		Secret:       "test-secret",
		TTL:          time.Hour,
		Username:     "editor",
		PasswordHash: string(hash),
	}
	return NewSessionManager(cfg, func() time.Time { return *now })
}

func TestLoginAndVerify(t *testing.T) {
	now := time.Date(2018, time.July, 1, 12, 0, 0, 0, time.UTC)
	m := newTestSessions(t, &now)

	token, err := m.Login("editor", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	session, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if session.Username != "editor" || session.ID == "" {
		t.Errorf("session = %+v", session)
	}
	if !session.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("expires at %v", session.ExpiresAt)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	now := time.Now()
	m := newTestSessions(t, &now)

	tests := []struct{ user, pass string }{
		{"editor", "wrong"},
		{"someone", "hunter2"},
		{"", ""},
	}
	for _, tt := range tests {
		if _, err := m.Login(tt.user, tt.pass); !errs.IsUnauthorized(err) {
			t.Errorf("Login(%q, %q) = %v", tt.user, tt.pass, err)
		}
	}
}

func TestLoginDisabledWithoutHash(t *testing.T) {
	m := NewSessionManager(config.SessionConfig{Secret: "s", TTL: time.Hour, Username: "editor"}, nil)
	if _, err := m.Login("editor", ""); !errs.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	now := time.Date(2018, time.July, 1, 12, 0, 0, 0, time.UTC)
	m := newTestSessions(t, &now)

	token, err := m.Issue("editor")
	if err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := m.Verify(token); !errs.IsUnauthorized(err) {
		t.Errorf("expired token accepted: %v", err)
	}

	other := NewSessionManager(config.SessionConfig{Secret: "other", TTL: time.Hour}, func() time.Time { return now })
	foreign, err := other.Issue("editor")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Verify(foreign); !errs.IsUnauthorized(err) {
		t.Errorf("token signed with another secret accepted: %v", err)
	}

	if _, err := m.Verify("not-a-token"); !errs.IsUnauthorized(err) {
		t.Errorf("garbage accepted: %v", err)
	}
}
