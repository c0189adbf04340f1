// Package main provides the eventkit CLI entry point.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eventkit/eventkit/internal/catalog"
	"github.com/eventkit/eventkit/internal/config"
	"github.com/eventkit/eventkit/internal/profile"
	"github.com/eventkit/eventkit/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "eventkit",
	Short: "Conference session recommendation agent",
	Long:  "Eventkit ranks conference sessions and calendar events against your interests, explains why a session matched, and exports personalized itineraries.",
}

var manifestPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "Path to the session manifest (default agent.json, or MANIFEST_PATH)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadCatalog resolves the manifest path from the flag, the environment and
// the default, in that order.
func loadCatalog(settings *config.Settings) (*catalog.Catalog, error) {
	path := manifestPath
	if path == "" {
		path = settings.ManifestPath
	}
	if path == "" {
		path = catalog.DefaultManifestPath
	}
	return catalog.Load(path)
}

// newTelemetry builds the telemetry logger from the manifest feature with
// the environment override for the file path.
func newTelemetry(cat *catalog.Catalog, settings *config.Settings) *telemetry.Logger {
	file := cat.Manifest.Features.Telemetry.File
	if settings.TelemetryFile != "" {
		file = settings.TelemetryFile
	}
	return telemetry.New(telemetry.Config{
		Enabled: cat.Manifest.Features.Telemetry.Enabled,
		File:    file,
	})
}

// newProfileStore returns the file-backed profile store configured in the
// manifest. The CLI does not use the database store.
func newProfileStore(cat *catalog.Catalog) profile.Store {
	file := cat.Manifest.Profile.StorageFile
	if file == "" {
		file = "profiles.json"
	}
	return profile.NewFileStore(file)
}

// printJSON writes a value to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
