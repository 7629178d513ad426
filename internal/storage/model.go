package storage

import (
	"database/sql"
	"time"

	"github.com/roman-kulish/telemetry-bridge/internal/telemetry"
)

// Session is one conformance run.
type Session struct {
	ID        int64     `json:"id"`               // Unique identifier for the session
	RunID     string    `json:"runID"`            // Run identifier shared with the log output
	StartTime time.Time `json:"startTime"`        // When the run began
	Name      string    `json:"name"`             // Human-readable run name
	Config    *string   `json:"config,omitempty"` // Run configuration in JSON format
}

// Dispatch is one trampoline call and what the probe observed.
type Dispatch struct {
	ID        int64           `json:"id"`
	SessionID int64           `json:"sessionID"`
	Timestamp time.Time       `json:"timestamp"`          // When the call was made
	Scenario  string          `json:"scenario"`           // Scenario name from the run configuration
	Worker    int             `json:"worker"`             // Worker (probe slot) that made the call
	Sent      telemetry.Frame `json:"sent"`               // Arguments passed to the trampoline
	Observed  telemetry.Frame `json:"observed,omitempty"` // Arguments the probe received, nil if none
	Matched   bool            `json:"matched"`            // Observed is bit-identical to Sent
	Elapsed   time.Duration   `json:"elapsed"`            // Wall time of the call
}

// CategorySummary aggregates the dispatches of one category in a session.
type CategorySummary struct {
	Category   string
	Dispatches int64
	Mismatches int64
	AvgElapsed time.Duration
}

type dispatchData struct {
	ID        int64
	SessionID int64
	Timestamp time.Time
	Scenario  string
	Category  string
	Worker    int
	Sent      string
	Observed  sql.NullString
	Matched   bool
	ElapsedNS int64
}
