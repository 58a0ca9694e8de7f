package credstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T, path, profile string) *SQLiteStorage {
	t.Helper()
	s, err := OpenSQLiteStorage(path, profile)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStorage_Upsert(t *testing.T) {
	s := openTestSQLite(t, filepath.Join(t.TempDir(), "tokens.db"), "default")

	_, ok, err := s.Read(AccessTokenSlot)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write(AccessTokenSlot, "A1"))
	require.NoError(t, s.Write(AccessTokenSlot, "A2"))

	v, ok, err := s.Read(AccessTokenSlot)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "A2", v)

	var count int64
	require.NoError(t, s.db.Model(&credentialSlot{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSQLiteStorage_DeleteAndProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")
	prod := openTestSQLite(t, path, "prod")
	dev := openTestSQLite(t, path, "dev")

	require.NoError(t, prod.Write(RefreshTokenSlot, "prod-R"))
	require.NoError(t, dev.Write(RefreshTokenSlot, "dev-R"))
	require.NoError(t, dev.Delete(RefreshTokenSlot))

	_, ok, err := dev.Read(RefreshTokenSlot)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := prod.Read(RefreshTokenSlot)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "prod-R", v)
}

func TestStore_SQLiteColdStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")
	s := New(openTestSQLite(t, path, "default"))
	require.NoError(t, s.Set(Credentials{AccessToken: "A1", RefreshToken: "R1"}))

	restarted := New(openTestSQLite(t, path, "default"))
	assert.Equal(t, Credentials{AccessToken: "A1", RefreshToken: "R1"}, restarted.Get())
}
