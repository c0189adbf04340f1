package types

// Manifest is the static session catalog and its configuration, loaded from
// a JSON file (agent.json by convention).
type Manifest struct {
	Name      string            `json:"name,omitempty"`
	Weights   Weights           `json:"weights"`
	Recommend RecommendDefaults `json:"recommend"`
	Sessions  []Session         `json:"sessions"`
	Profile   ProfileConfig     `json:"profile,omitempty"`
	Features  Features          `json:"features,omitempty"`
}

// RecommendDefaults holds manifest-level recommendation defaults.
type RecommendDefaults struct {
	MaxSessionsDefault int `json:"max_sessions_default"`
}

// ProfileConfig configures interest-profile persistence.
type ProfileConfig struct {
	StorageFile string `json:"storage_file,omitempty"`
}

// Features holds the manifest feature toggles.
type Features struct {
	Telemetry        TelemetryFeature        `json:"telemetry,omitempty"`
	Export           ExportFeature           `json:"export,omitempty"`
	ExternalSessions ExternalSessionsFeature `json:"externalSessions,omitempty"`
}

// TelemetryFeature enables the JSONL action log.
type TelemetryFeature struct {
	Enabled bool   `json:"enabled,omitempty"`
	File    string `json:"file,omitempty"`
}

// ExportFeature enables saving markdown itineraries to disk.
type ExportFeature struct {
	Enabled   bool   `json:"enabled,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`
}

// ExternalSessionsFeature substitutes the embedded session list with one
// loaded from a separate JSON file.
type ExternalSessionsFeature struct {
	Enabled bool   `json:"enabled,omitempty"`
	File    string `json:"file,omitempty"`
}
