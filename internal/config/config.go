// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
)

// Settings holds application settings read from the environment. A .env
// file, when present, is loaded by main before Settings is constructed.
type Settings struct {
	RunMode      string
	APIToken     string
	ManifestPath string

	// Microsoft Graph credentials
	GraphTenantID     string
	GraphClientID     string
	GraphClientSecret string
	GraphEnabled      bool

	TelemetryFile string
	DatabaseURL   string
	GeminiAPIKey  string
}

// LoadSettings reads settings from environment variables.
func LoadSettings() *Settings {
	return &Settings{
		RunMode:           os.Getenv("RUN_MODE"),
		APIToken:          os.Getenv("API_TOKEN"),
		ManifestPath:      os.Getenv("MANIFEST_PATH"),
		GraphTenantID:     os.Getenv("GRAPH_TENANT_ID"),
		GraphClientID:     os.Getenv("GRAPH_CLIENT_ID"),
		GraphClientSecret: os.Getenv("GRAPH_CLIENT_SECRET"),
		GraphEnabled:      getEnvBool("GRAPH_ENABLED", false),
		TelemetryFile:     os.Getenv("TELEMETRY_FILE"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
	}
}

// GraphReady reports whether all Graph credentials are configured.
func (s *Settings) GraphReady() bool {
	return s.GraphTenantID != "" && s.GraphClientID != "" && s.GraphClientSecret != ""
}

// GraphValidationErrors returns the missing Graph credentials, if any.
func (s *Settings) GraphValidationErrors() []string {
	var errors []string
	if s.GraphTenantID == "" {
		errors = append(errors, "GRAPH_TENANT_ID not set")
	}
	if s.GraphClientID == "" {
		errors = append(errors, "GRAPH_CLIENT_ID not set")
	}
	if s.GraphClientSecret == "" {
		errors = append(errors, "GRAPH_CLIENT_SECRET not set")
	}
	return errors
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
