package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// ErrInvalidCookie covers any session cookie that fails verification
var ErrInvalidCookie = errors.New("invalid session cookie")

// Claims carried by the session cookie
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session cookies
type Manager struct {
	secret []byte
}

// NewManager builds a manager; the secret must not be empty
func NewManager(secret string) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret not configured")
	}
	return &Manager{secret: []byte(secret)}, nil
}

// NewID returns a fresh session ID
func (m *Manager) NewID() string {
	return ulid.Make().String()
}

// Sign produces the cookie value for a session ID
func (m *Manager) Sign(sessionID string) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks a cookie value and returns the session ID it carries
func (m *Manager) Verify(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidCookie
	}
	return claims.SessionID, nil
}
