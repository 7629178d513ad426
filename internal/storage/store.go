package storage

import (
	"context"
)

// Store persists conformance runs: one session per run and one record per
// trampoline call made during the run.
type Store interface {
	// CreateSession starts a new run and returns its unique identifier.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - runID: Run identifier, also attached to the log output
	//   - name: Human-readable run name
	//   - config: Optional run configuration. Can be string, []byte, or JSON-serializable object
	//
	// Returns:
	//   - sessionID: Unique identifier for the created session
	//   - error: If session creation fails or context is cancelled
	CreateSession(ctx context.Context, runID, name string, config any) (sessionID int64, err error)

	// Session retrieves a run by its session ID.
	Session(ctx context.Context, id int64) (session *Session, err error)

	// Sessions returns all runs ordered by start time.
	Sessions(ctx context.Context) (sessions []*Session, err error)

	// StoreDispatches saves dispatch records of a session in a single
	// transaction. Either all records are stored or none is.
	StoreDispatches(ctx context.Context, sessionID int64, dispatches []Dispatch) error

	// Dispatches returns the dispatch records of a session ordered by ID,
	// optionally filtered.
	Dispatches(ctx context.Context, sessionID int64, opts ...DispatchOption) ([]*Dispatch, error)

	// Summary aggregates dispatch records of a session per category.
	Summary(ctx context.Context, sessionID int64) ([]CategorySummary, error)

	// Close releases all database connections and resources.
	// It is safe to call Close multiple times.
	Close() error
}
