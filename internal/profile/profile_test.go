package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user1", []string{"ai", "agents"}))

	interests, err := store.Load(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "agents"}, interests)
}

func TestFileStore_LoadLowercases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user1": ["AI Safety", "Agents"]}`), 0644))
	store := NewFileStore(path)

	interests, err := store.Load(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ai safety", "agents"}, interests)
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	interests, err := store.Load(context.Background(), "user1")
	require.NoError(t, err)
	assert.Empty(t, interests)
}

func TestFileStore_CorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))
	store := NewFileStore(path)

	interests, err := store.Load(context.Background(), "user1")
	require.NoError(t, err)
	assert.Empty(t, interests)
}

func TestFileStore_UnknownProfileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store := NewFileStore(path)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "user1", []string{"ai"}))

	interests, err := store.Load(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, interests)
}

func TestFileStore_SavePreservesOtherProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user1", []string{"ai"}))
	require.NoError(t, store.Save(ctx, "user2", []string{"agents"}))
	require.NoError(t, store.Save(ctx, "user1", []string{"ml"}))

	one, err := store.Load(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ml"}, one)

	two, err := store.Load(ctx, "user2")
	require.NoError(t, err)
	assert.Equal(t, []string{"agents"}, two)
}
