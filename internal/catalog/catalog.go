// Package catalog loads the static session manifest and resolves the active
// session list.
package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/eventkit/eventkit/internal/schemas"
	"github.com/eventkit/eventkit/internal/types"
)

// DefaultManifestPath is the conventional manifest file name.
const DefaultManifestPath = "agent.json"

// Catalog wraps a loaded manifest together with the directory it came from,
// which anchors relative paths for features like external sessions.
type Catalog struct {
	Manifest *types.Manifest
	dir      string
}

// Load reads and parses a manifest file. When the manifest JSON Schema can
// be located it is enforced; a missing schema file only logs a warning so
// the CLI keeps working from any directory.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	if schemaPath := schemas.ResolveSchemaPath(filepath.Join("schemas", "manifest.schema.json")); schemaPath != "" {
		if err := schemas.ValidateBytes(schemaPath, data); err != nil {
			return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
		}
	} else {
		log.Printf("[catalog] manifest schema not found, skipping validation")
	}

	var manifest types.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}

	return &Catalog{Manifest: &manifest, dir: filepath.Dir(path)}, nil
}

// Sessions returns the active candidate pool: the external sessions file
// when that feature is enabled and loadable, otherwise the embedded list.
func (c *Catalog) Sessions() []types.Session {
	if external := c.externalSessions(); len(external) > 0 {
		return external
	}
	return c.Manifest.Sessions
}

// Weights returns the manifest scoring weights.
func (c *Catalog) Weights() types.Weights {
	return c.Manifest.Weights
}

// DefaultTop returns the manifest default result-size cap.
func (c *Catalog) DefaultTop() int {
	return c.Manifest.Recommend.MaxSessionsDefault
}

// externalSessions loads the external sessions file when enabled. Any
// problem (missing file, malformed JSON) falls back to the embedded
// sessions rather than failing the call.
func (c *Catalog) externalSessions() []types.Session {
	feat := c.Manifest.Features.ExternalSessions
	if !feat.Enabled {
		return nil
	}

	file := feat.File
	if file == "" {
		file = "sessions_external.json"
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(c.dir, file)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		log.Printf("[catalog] external sessions file %s not readable: %v", file, err)
		return nil
	}

	var sessions []types.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Printf("[catalog] external sessions file %s malformed: %v", file, err)
		return nil
	}
	return sessions
}
