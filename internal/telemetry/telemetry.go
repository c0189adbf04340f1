// Package telemetry appends one JSON line per agent action to a local file.
package telemetry

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Config holds telemetry configuration, usually sourced from the manifest
// telemetry feature with an optional environment override for the path.
type Config struct {
	Enabled bool
	File    string
}

// DefaultFile is used when no telemetry file is configured.
const DefaultFile = "telemetry.jsonl"

// Logger writes action records as JSON lines. Telemetry must never break a
// request: write failures are swallowed. The zero-value-disabled Logger is
// safe to call.
type Logger struct {
	enabled bool
	path    string

	mu   sync.Mutex
	file *os.File
}

// record is the JSONL line shape.
type record struct {
	Action        string  `json:"action"`
	Payload       any     `json:"payload"`
	Start         float64 `json:"start,omitempty"`
	DurationMS    int64   `json:"duration_ms,omitempty"`
	Success       bool    `json:"success"`
	Error         string  `json:"error,omitempty"`
	CorrelationID string  `json:"correlation_id,omitempty"`
}

// New creates a telemetry logger. The file is opened lazily on first use.
func New(cfg Config) *Logger {
	path := cfg.File
	if path == "" {
		path = DefaultFile
	}
	return &Logger{enabled: cfg.Enabled, path: path}
}

// Log appends one action record. start may be the zero time when the caller
// did not measure duration.
func (l *Logger) Log(action string, payload any, start time.Time, success bool, errMsg string, correlationID string) {
	if l == nil || !l.enabled {
		return
	}

	rec := record{
		Action:        action,
		Payload:       payload,
		Success:       success,
		Error:         errMsg,
		CorrelationID: correlationID,
	}
	if !start.IsZero() {
		rec.Start = float64(start.UnixNano()) / float64(time.Second)
		rec.DurationMS = time.Since(start).Milliseconds()
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return
		}
		l.file = f
	}

	_, _ = l.file.Write(append(line, '\n'))
}

// Close releases the underlying file, if one was opened.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// NewCorrelationID returns a fresh correlation ID for request tracing.
func NewCorrelationID() string {
	return uuid.NewString()
}
