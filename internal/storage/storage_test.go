//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/countclock/internal/targets"
)

// Storage must satisfy the saved-target store's collaborator.
var _ targets.KV = (*Storage)(nil)

func TestStorage_SetPersists(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "nested", "storage.json")

	s, err := NewStorage(path)
	require.NoError(t, err)
	_, ok, err := s.Get("k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set("k", `[{"id":1}]`))

	// Read raw file to ensure the value is stored under values.
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.InDelta(t, 1, raw["version"], 0)
	values, ok := raw["values"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, values["k"])

	// Re-open and ensure persistence.
	s2, err := NewStorage(path)
	require.NoError(t, err)
	v, ok, err := s2.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, v)
}

func TestNewOrExistingStorage_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	_, err := NewOrExistingStorage(path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	s, err := NewOrExistingStorage(path)
	require.NoError(t, err)
	assert.Equal(t, currentVersion, s.Data.Version)
}

func TestStorage_SelfHeals(t *testing.T) {
	tmp := t.TempDir()

	corrupt := filepath.Join(tmp, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{nope"), 0o600))
	s, err := NewStorage(corrupt)
	require.NoError(t, err)
	assert.Empty(t, s.Data.Values)

	old := filepath.Join(tmp, "old.json")
	require.NoError(t, os.WriteFile(old, []byte(`{"version": 0}`), 0o600))
	s, err = NewStorage(old)
	require.NoError(t, err)
	assert.Equal(t, currentVersion, s.Data.Version)
	assert.NotNil(t, s.Data.Values)

	b, err := os.ReadFile(old)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"version": 1`)
}

func TestStorage_BackedTargetStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	s, err := NewOrExistingStorage(path)
	require.NoError(t, err)

	store, err := targets.Open(s)
	require.NoError(t, err)
	saved, err := store.Save("Keynote", mustParse(t, "2026-12-01T10:00:00Z"))
	require.NoError(t, err)

	s2, err := NewStorage(path)
	require.NoError(t, err)
	store2, err := targets.Open(s2)
	require.NoError(t, err)
	got, err := store2.Load(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keynote", got.Name)
	assert.True(t, saved.Date.Equal(got.Date))
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandTilde("~/x/storage.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "storage.json"), got)

	got, err = expandTilde("/abs/storage.json")
	require.NoError(t, err)
	assert.Equal(t, "/abs/storage.json", got)
}

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}
