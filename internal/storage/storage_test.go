package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentalhub/rentalhub/internal/models"
)

func newSQLStore(t *testing.T) *SQLStore {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.sqlite"), zerolog.Nop())
	require.NoError(t, err)

	s := NewSQLStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// exerciseStore runs the behavior every backend shares
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, "ns1", "isAuthenticated")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "ns1", "isAuthenticated", "true"))
	require.NoError(t, s.Set(ctx, "ns1", "userID", "42"))
	require.NoError(t, s.Set(ctx, "ns2", "isAuthenticated", "false"))

	v, err := s.Get(ctx, "ns1", "isAuthenticated")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	// Overwrite keeps a single value per key
	require.NoError(t, s.Set(ctx, "ns1", "isAuthenticated", "false"))
	v, err = s.Get(ctx, "ns1", "isAuthenticated")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	require.NoError(t, s.Delete(ctx, "ns1", "userID"))
	_, err = s.Get(ctx, "ns1", "userID")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error
	require.NoError(t, s.Delete(ctx, "ns1", "userID"))

	require.NoError(t, s.DeleteNamespace(ctx, "ns2"))
	_, err = s.Get(ctx, "ns2", "isAuthenticated")
	require.ErrorIs(t, err, ErrNotFound)

	v, err = s.Get(ctx, "ns1", "isAuthenticated")
	require.NoError(t, err)
	assert.Equal(t, "false", v)
}

func TestSQLStore(t *testing.T) {
	exerciseStore(t, newSQLStore(t))
}

func TestFileStore(t *testing.T) {
	exerciseStore(t, NewFileStore(filepath.Join(t.TempDir(), "nested", "storage.json")))
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	ctx := context.Background()

	require.NoError(t, NewFileStore(path).Set(ctx, "cli", "isAuthenticated", "true"))

	v, err := NewFileStore(path).Get(ctx, "cli", "isAuthenticated")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Get(context.Background(), "cli", "isAuthenticated")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSQLStore_PruneIdle(t *testing.T) {
	s := newSQLStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "signed-in", "isAuthenticated", "true"))
	require.NoError(t, s.Set(ctx, "signed-out", "isAuthenticated", "false"))
	require.NoError(t, s.Set(ctx, "signed-out", "userID", "7"))
	require.NoError(t, s.Set(ctx, "fresh", "isAuthenticated", "false"))

	old := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, s.db.Model(&models.StorageEntry{}).
		Where("namespace IN ?", []string{"signed-in", "signed-out"}).
		UpdateColumn("updated_at", old).Error)

	removed, err := s.PruneIdle(ctx, time.Now().Add(-24*time.Hour), "isAuthenticated", "true")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = s.Get(ctx, "signed-out", "isAuthenticated")
	require.ErrorIs(t, err, ErrNotFound)

	v, err := s.Get(ctx, "signed-in", "isAuthenticated")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	_, err = s.Get(ctx, "fresh", "isAuthenticated")
	require.NoError(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDRESS not set")
	}

	rdb, err := NewRedisClient(addr)
	require.NoError(t, err)

	s := NewRedisStore(rdb)
	clear := func() {
		ctx := context.Background()
		_ = s.DeleteNamespace(ctx, "ns1")
		_ = s.DeleteNamespace(ctx, "ns2")
	}
	clear()
	t.Cleanup(func() {
		clear()
		_ = s.Close()
	})

	exerciseStore(t, s)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient("127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}
