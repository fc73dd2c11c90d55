package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/leadsite-api/internal/config"
)

const (
	issuer  = "leadsite-api"
	subject = "admin"
)

var (
	// ErrLoginDisabled is returned when no admin password is configured
	ErrLoginDisabled = errors.New("admin login is disabled")
	// ErrInvalidPassword is returned for a wrong password
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidToken is returned for malformed, forged or expired tokens
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Session is an issued admin token
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Manager issues and verifies admin session tokens
type Manager struct {
	password []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a token manager from the admin config
func NewManager(cfg *config.AdminConfig) (*Manager, error) {
	if cfg.TokenSecret == "" {
		return nil, errors.New("token secret is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	return &Manager{
		password: []byte(cfg.Password),
		secret:   []byte(cfg.TokenSecret),
		ttl:      cfg.TokenTTL,
		now:      time.Now,
	}, nil
}

// Enabled reports whether a login can ever succeed
func (m *Manager) Enabled() bool {
	return len(m.password) > 0
}

// Login checks the password and issues a signed token
func (m *Manager) Login(password string) (*Session, error) {
	if !m.Enabled() {
		return nil, ErrLoginDisabled
	}
	if subtle.ConstantTimeCompare([]byte(password), m.password) != 1 {
		return nil, ErrInvalidPassword
	}

	now := m.now()
	expires := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{Token: signed, ExpiresAt: expires}, nil
}

// Verify parses token and returns its claims
func (m *Manager) Verify(token string) (*jwt.RegisteredClaims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithSubject(subject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
