package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `{
  "name": "test-kit",
  "weights": {"interest": 2.0, "popularity": 0.5, "diversity": 0.3},
  "recommend": {"max_sessions_default": 3},
  "sessions": [
    {"title": "A", "tags": ["ai"], "popularity": 0.8, "start": "9:00", "end": "10:00"},
    {"title": "B", "tags": ["agents"], "popularity": 0.2, "start": "10:00", "end": "11:00"}
  ]
}`

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "agent.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), testManifest)

	cat, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-kit", cat.Manifest.Name)
	assert.InDelta(t, 2.0, cat.Weights().Interest, 1e-9)
	assert.Equal(t, 3, cat.DefaultTop())
	assert.Len(t, cat.Sessions(), 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "{not json")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSessions_ExternalFileSubstitutes(t *testing.T) {
	dir := t.TempDir()
	manifest := `{
  "weights": {"interest": 1, "popularity": 1, "diversity": 1},
  "recommend": {"max_sessions_default": 3},
  "sessions": [{"title": "Embedded", "start": "9:00", "end": "10:00"}],
  "features": {"externalSessions": {"enabled": true, "file": "sessions_external.json"}}
}`
	path := writeManifest(t, dir, manifest)
	external := `[
  {"title": "Ext1", "start": "9:00", "end": "10:00"},
  {"title": "Ext2", "start": "10:00", "end": "11:00"}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sessions_external.json"), []byte(external), 0644))

	cat, err := Load(path)
	require.NoError(t, err)

	sessions := cat.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "Ext1", sessions[0].Title)
}

func TestSessions_ExternalFileMissingFallsBack(t *testing.T) {
	dir := t.TempDir()
	manifest := `{
  "weights": {"interest": 1, "popularity": 1, "diversity": 1},
  "recommend": {"max_sessions_default": 3},
  "sessions": [{"title": "Embedded", "start": "9:00", "end": "10:00"}],
  "features": {"externalSessions": {"enabled": true, "file": "missing.json"}}
}`
	path := writeManifest(t, dir, manifest)

	cat, err := Load(path)
	require.NoError(t, err)

	sessions := cat.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "Embedded", sessions[0].Title)
}

func TestSessions_ExternalFileMalformedFallsBack(t *testing.T) {
	dir := t.TempDir()
	manifest := `{
  "weights": {"interest": 1, "popularity": 1, "diversity": 1},
  "recommend": {"max_sessions_default": 3},
  "sessions": [{"title": "Embedded", "start": "9:00", "end": "10:00"}],
  "features": {"externalSessions": {"enabled": true, "file": "bad.json"}}
}`
	path := writeManifest(t, dir, manifest)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{oops"), 0644))

	cat, err := Load(path)
	require.NoError(t, err)

	sessions := cat.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "Embedded", sessions[0].Title)
}
