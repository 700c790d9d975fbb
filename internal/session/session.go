// Package session exposes the persisted authentication flag as an explicit
// value that callers pass to the routing layer.
package session

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/rentalhub/rentalhub/internal/assert"
	"github.com/rentalhub/rentalhub/internal/storage"
)

// Storage keys, shared with the SPA's local storage layout
const (
	AuthenticatedKey = "isAuthenticated"
	UserIDKey        = "userID"
)

// SystemNamespace holds server-wide values and is never a session
const SystemNamespace = "_system"

// Session is one client's view of the persisted flag
type Session struct {
	ID    string
	store storage.Store
	log   zerolog.Logger
}

// New binds a session ID to its storage namespace
func New(id string, store storage.Store, log zerolog.Logger) *Session {
	assert.NotEmpty("session ID", id)
	return &Session{ID: id, store: store, log: log}
}

// Authenticated reports whether the flag holds "true". Absent, malformed
// and unreadable values all count as signed out.
func (s *Session) Authenticated(ctx context.Context) bool {
	v, err := s.store.Get(ctx, s.ID, AuthenticatedKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn().Err(err).Str("session_id", s.ID).Msg("Failed to read authentication flag")
		}
		return false
	}
	return v == "true"
}

// UserID returns the signed-in user, or "" when none is recorded
func (s *Session) UserID(ctx context.Context) string {
	v, err := s.store.Get(ctx, s.ID, UserIDKey)
	if err != nil {
		return ""
	}
	return v
}

// SignIn raises the flag and records the user. An empty userID clears any
// user left over from an earlier sign-in.
func (s *Session) SignIn(ctx context.Context, userID string) error {
	if userID != "" {
		if err := s.store.Set(ctx, s.ID, UserIDKey, userID); err != nil {
			return err
		}
	} else if err := s.store.Delete(ctx, s.ID, UserIDKey); err != nil {
		return err
	}
	return s.store.Set(ctx, s.ID, AuthenticatedKey, "true")
}

// SignOut lowers the flag and forgets the user
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.store.Set(ctx, s.ID, AuthenticatedKey, "false"); err != nil {
		return err
	}
	return s.store.Delete(ctx, s.ID, UserIDKey)
}
