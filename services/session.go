package services

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/shooting-roster/config"
	"github.com/rpupo63/shooting-roster/errs"
	"golang.org/x/crypto/bcrypt"
)

const sessionIssuer = "shooting-roster"

// Session is the authenticated editor behind a request.
type Session struct {
	ID        string
	Username  string
	ExpiresAt time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// SessionManager checks editor credentials and issues signed session tokens.
type SessionManager struct {
	secret       []byte
	ttl          time.Duration
	username     string
	passwordHash []byte
	now          func() time.Time
}

func NewSessionManager(cfg config.SessionConfig, now func() time.Time) *SessionManager {
	if now == nil {
		now = time.Now
	}
	return &SessionManager{
		secret:       []byte(cfg.Secret),
		ttl:          cfg.TTL,
		username:     cfg.Username,
		passwordHash: []byte(cfg.PasswordHash),
		now:          now,
	}
}

// TTL is how long an issued token stays valid.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Login verifies the credentials and returns a signed token.
func (m *SessionManager) Login(username, password string) (string, error) {
	if len(m.passwordHash) == 0 {
		return "", errs.NewUnauthorizedError("login is disabled")
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", errs.NewUnauthorizedError("invalid username or password")
	}
	return m.Issue(username)
}

// Issue signs a fresh HS256 session token for username.
func (m *SessionManager) Issue(username string) (string, error) {
	now := m.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    sessionIssuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Username: username,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing session: %w", err)
	}
	return token, nil
}

// Verify parses a token and returns the session it carries.
func (m *SessionManager) Verify(token string) (Session, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Session{}, errs.NewUnauthorizedError(err.Error())
	}
	return Session{
		ID:        claims.ID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
