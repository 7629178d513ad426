package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roman-kulish/telemetry-bridge/internal/trampoline"
)

// maxRowsPerInsert keeps a multi-row insert below SQLite's bound parameter limit.
const maxRowsPerInsert = 1000

var _ Store = (*SqliteStore)(nil)

// DispatchOption narrows the records returned by Dispatches.
type DispatchOption func(*dispatchQuery)

type dispatchQuery struct {
	category   *trampoline.Category
	scenario   *string
	mismatched bool
}

// WithCategory keeps records of category c only.
func WithCategory(c trampoline.Category) DispatchOption {
	return func(q *dispatchQuery) {
		q.category = &c
	}
}

// WithScenario keeps records of the named scenario only.
func WithScenario(name string) DispatchOption {
	return func(q *dispatchQuery) {
		q.scenario = &name
	}
}

// WithMismatchesOnly keeps records whose observed frame differs from the sent one.
func WithMismatchesOnly() DispatchOption {
	return func(q *dispatchQuery) {
		q.mismatched = true
	}
}

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a store backed by the Sqlite database at dbPath.
// Connections are opened and the schema initialized on first use.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateSession(ctx context.Context, runID, name string, config any) (sessionID int64, err error) {
	configData, err := configToNullString(config)
	if err != nil {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, runID, time.Now().UTC(), name, configData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	sessionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

func (s *SqliteStore) Session(ctx context.Context, id int64) (session *Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var sess Session
	var config sql.NullString
	if err = stmt.QueryRowContext(ctx, id).Scan(&sess.ID, &sess.RunID, &sess.StartTime, &sess.Name, &config); err != nil {
		err = fmt.Errorf("scanning session: %w", err)
		return
	}
	if config.Valid {
		sess.Config = &config.String
	}

	return &sess, nil
}

func (s *SqliteStore) Sessions(ctx context.Context) (sessions []*Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var sess Session
		var config sql.NullString
		if err = rows.Scan(&sess.ID, &sess.RunID, &sess.StartTime, &sess.Name, &config); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}
		if config.Valid {
			sess.Config = &config.String
		}
		sessions = append(sessions, &sess)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) StoreDispatches(ctx context.Context, sessionID int64, dispatches []Dispatch) (err error) {
	if len(dispatches) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	for start := 0; start < len(dispatches); start += maxRowsPerInsert {
		end := min(start+maxRowsPerInsert, len(dispatches))
		if err = insertDispatches(ctx, tx, sessionID, dispatches[start:end]); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func insertDispatches(ctx context.Context, tx *sql.Tx, sessionID int64, dispatches []Dispatch) error {
	values := make([]any, 0, len(dispatches)*dispatchColumns)

	var sb strings.Builder
	sb.WriteString(insertDispatchSQL)

	for i := range dispatches {
		data, err := toDispatchData(sessionID, &dispatches[i])
		if err != nil {
			return fmt.Errorf("converting dispatch %d: %w", i, err)
		}

		values = append(values,
			data.SessionID,
			data.Timestamp,
			data.Scenario,
			data.Category,
			data.Worker,
			data.Sent,
			data.Observed,
			data.Matched,
			data.ElapsedNS,
		)

		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(dispatchValuesPlaceholder)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), values...); err != nil {
		return fmt.Errorf("batch inserting dispatches: %w", err)
	}
	return nil
}

func (s *SqliteStore) Dispatches(ctx context.Context, sessionID int64, opts ...DispatchOption) (dispatches []*Dispatch, err error) {
	var q dispatchQuery
	for _, opt := range opts {
		opt(&q)
	}

	query := selectDispatchesSQL
	args := []any{sessionID}
	if q.category != nil {
		query += " AND category = ?"
		args = append(args, q.category.String())
	}
	if q.scenario != nil {
		query += " AND scenario = ?"
		args = append(args, *q.scenario)
	}
	if q.mismatched {
		query += " AND matched = 0"
	}
	query += " ORDER BY id"

	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		err = fmt.Errorf("querying dispatches: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var data dispatchData
		if err = rows.Scan(
			&data.ID,
			&data.SessionID,
			&data.Timestamp,
			&data.Scenario,
			&data.Category,
			&data.Worker,
			&data.Sent,
			&data.Observed,
			&data.Matched,
			&data.ElapsedNS,
		); err != nil {
			err = fmt.Errorf("scanning dispatch: %w", err)
			return
		}

		var d *Dispatch
		if d, err = fromDispatchData(&data); err != nil {
			err = fmt.Errorf("dispatch %d: %w", data.ID, err)
			return
		}
		dispatches = append(dispatches, d)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) Summary(ctx context.Context, sessionID int64) (summary []CategorySummary, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSummarySQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying summary: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var cs CategorySummary
		var avg float64
		if err = rows.Scan(&cs.Category, &cs.Dispatches, &cs.Mismatches, &avg); err != nil {
			err = fmt.Errorf("scanning summary: %w", err)
			return
		}
		cs.AvgElapsed = time.Duration(avg)
		summary = append(summary, cs)
	}
	err = rows.Err()
	return
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		s.closeErr = errors.Join(writeErr, readErr)
	})

	return s.closeErr
}
