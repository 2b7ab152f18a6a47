// Package storage keeps parity run reports in a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/samdwyer/nhparity/internal/parity"
	"github.com/samdwyer/nhparity/internal/snapshot"
)

// ErrNotFound is returned when a run ID is not in the database.
var ErrNotFound = errors.New("storage: run not found")

// timeLayout is fixed width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	RunID     string
	Seed      uint64
	Reference string
	Candidate string
	Kind      parity.Kind
	Turns     int
	Critical  int
	Major     int
	Minor     int
	Started   time.Time
	Finished  time.Time
}

// DivergenceRecord is one stored difference from a run's divergent turn.
type DivergenceRecord struct {
	RunID     string
	Turn      int
	Path      string
	Severity  snapshot.Severity
	Reference string
	Candidate string
}

// FaultRecord is a stored engine fault.
type FaultRecord struct {
	RunID  string
	Engine string
	Phase  parity.Phase
	Turn   int
	Error  string
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			seed TEXT NOT NULL,
			reference TEXT NOT NULL,
			candidate TEXT NOT NULL,
			kind TEXT NOT NULL,
			turns INTEGER NOT NULL DEFAULT 0,
			critical INTEGER NOT NULL DEFAULT 0,
			major INTEGER NOT NULL DEFAULT 0,
			minor INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			report TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);

		CREATE TABLE IF NOT EXISTS divergences (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(run_id),
			turn INTEGER NOT NULL,
			path TEXT NOT NULL,
			severity TEXT NOT NULL,
			reference TEXT NOT NULL,
			candidate TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_divergences_run ON divergences(run_id);

		CREATE TABLE IF NOT EXISTS faults (
			run_id TEXT PRIMARY KEY REFERENCES runs(run_id),
			engine TEXT NOT NULL,
			phase TEXT NOT NULL,
			turn INTEGER NOT NULL,
			error TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReport records a finished run with its divergence or fault.
func (s *Store) SaveReport(ctx context.Context, r parity.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("storage: cannot encode report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, seed, reference, candidate, kind, turns,
		 critical, major, minor, started_at, finished_at, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, strconv.FormatUint(r.Seed, 10), r.Reference, r.Candidate, string(r.Kind), r.Turns,
		r.Critical, r.Major, r.Minor,
		r.Started.UTC().Format(timeLayout), r.Finished.UTC().Format(timeLayout), string(data),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}

	if d := r.Divergence; d != nil {
		diffs := d.Diffs
		if len(diffs) == 0 {
			diffs = []snapshot.Difference{{Path: d.Path, Severity: d.Severity, Reference: d.Reference, Candidate: d.Candidate}}
		}
		for _, diff := range diffs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO divergences (run_id, turn, path, severity, reference, candidate)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				r.RunID, d.Turn, diff.Path, diff.Severity.String(), diff.Reference, diff.Candidate,
			)
			if err != nil {
				return fmt.Errorf("storage: cannot save divergence: %w", err)
			}
		}
	}

	if f := r.Fault; f != nil {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO faults (run_id, engine, phase, turn, error) VALUES (?, ?, ?, ?, ?)",
			r.RunID, f.Engine, string(f.Phase), f.Turn, f.Error,
		)
		if err != nil {
			return fmt.Errorf("storage: cannot save fault: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return nil
}

// Report returns the full stored report for a run.
func (s *Store) Report(ctx context.Context, runID string) (parity.Report, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT report FROM runs WHERE run_id = ?", runID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return parity.Report{}, ErrNotFound
	}
	if err != nil {
		return parity.Report{}, fmt.Errorf("storage: cannot query run: %w", err)
	}

	var r parity.Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return parity.Report{}, fmt.Errorf("storage: cannot decode report %s: %w", runID, err)
	}
	return r, nil
}

// ListRuns returns the most recent runs first. An empty kind lists runs
// of every kind.
func (s *Store) ListRuns(ctx context.Context, kind parity.Kind, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, seed, reference, candidate, kind, turns, critical, major, minor,
		 started_at, finished_at
		 FROM runs
		 WHERE ? = '' OR kind = ?
		 ORDER BY started_at DESC
		 LIMIT ?`,
		string(kind), string(kind), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			r                 RunSummary
			seed, k           string
			started, finished string
		)
		if err := rows.Scan(&r.RunID, &seed, &r.Reference, &r.Candidate, &k, &r.Turns,
			&r.Critical, &r.Major, &r.Minor, &started, &finished); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Seed, err = strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("storage: bad seed %q in run %s: %w", seed, r.RunID, err)
		}
		r.Kind = parity.Kind(k)
		r.Started, _ = time.Parse(timeLayout, started)
		r.Finished, _ = time.Parse(timeLayout, finished)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// Divergences returns the differences stored for a run in the order they
// were found.
func (s *Store) Divergences(ctx context.Context, runID string) ([]DivergenceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, turn, path, severity, reference, candidate
		 FROM divergences
		 WHERE run_id = ?
		 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query divergences: %w", err)
	}
	defer rows.Close()

	var out []DivergenceRecord
	for rows.Next() {
		var (
			d   DivergenceRecord
			sev string
		)
		if err := rows.Scan(&d.RunID, &d.Turn, &d.Path, &sev, &d.Reference, &d.Candidate); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if err := d.Severity.UnmarshalText([]byte(sev)); err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Faults returns the most recent engine faults first.
func (s *Store) Faults(ctx context.Context, limit int) ([]FaultRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT f.run_id, f.engine, f.phase, f.turn, f.error
		 FROM faults f JOIN runs r ON r.run_id = f.run_id
		 ORDER BY r.started_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query faults: %w", err)
	}
	defer rows.Close()

	var out []FaultRecord
	for rows.Next() {
		var (
			f     FaultRecord
			phase string
		)
		if err := rows.Scan(&f.RunID, &f.Engine, &phase, &f.Turn, &f.Error); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		f.Phase = parity.Phase(phase)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}
