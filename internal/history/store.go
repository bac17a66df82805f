// Package history keeps a SQLite record of benchmark runs so that solver
// changes can be compared against earlier results.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/model"
)

// Store is an open history database.
type Store struct {
	db *sql.DB
}

// Run is one recorded benchmark.
type Run struct {
	ID         int64
	Label      string
	RecordedAt time.Time
	Settings   model.SolverSettings
	Summary    engine.Summary
	Failed     int
}

// Case is the outcome of one instance within a recorded benchmark.
type Case struct {
	Instance   string
	N          int
	M          int
	Squares    int
	Base       int
	Score      int
	Iterations int
	Elapsed    float64
	RunID      string
	Err        string
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			label TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			settings_json TEXT NOT NULL,
			cases INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			total REAL NOT NULL,
			mean REAL NOT NULL,
			std_dev REAL NOT NULL,
			min REAL NOT NULL,
			max REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cases (
			run INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			instance TEXT NOT NULL,
			n INTEGER NOT NULL,
			m INTEGER NOT NULL,
			squares INTEGER NOT NULL,
			base INTEGER NOT NULL,
			score INTEGER NOT NULL,
			iterations INTEGER NOT NULL,
			elapsed REAL NOT NULL,
			run_id TEXT NOT NULL,
			err TEXT NOT NULL,
			PRIMARY KEY (run, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_cases_instance ON cases(instance, score);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record stores a finished benchmark and returns its run id.
func (s *Store) Record(ctx context.Context, label string, settings model.SolverSettings, res engine.BenchmarkResult) (int64, error) {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return 0, fmt.Errorf("failed to encode settings: %w", err)
	}

	failed := 0
	for _, c := range res.Cases {
		if c.Err != nil {
			failed++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	sum := res.Summary
	out, err := tx.ExecContext(ctx,
		`INSERT INTO runs(label,recorded_at,settings_json,cases,failed,total,mean,std_dev,min,max)
		 VALUES(?,?,?,?,?,?,?,?,?,?)`,
		label, time.Now().UTC().Format(time.RFC3339Nano), string(settingsJSON),
		sum.Cases, failed, sum.Total, sum.Mean, sum.StdDev, sum.Min, sum.Max)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := out.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cases(run,seq,instance,n,m,squares,base,score,iterations,elapsed,run_id,err)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, c := range res.Cases {
		row := caseFromBenchmark(c)
		if _, err := stmt.ExecContext(ctx, id, i, row.Instance, row.N, row.M, row.Squares,
			row.Base, row.Score, row.Iterations, row.Elapsed, row.RunID, row.Err); err != nil {
			return 0, fmt.Errorf("failed to insert case %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func caseFromBenchmark(c engine.BenchmarkCase) Case {
	row := Case{
		Instance: c.Instance.Name,
		N:        c.Instance.N,
		M:        len(c.Instance.Points),
	}
	if c.Err != nil {
		row.Err = c.Err.Error()
		return row
	}
	sol := c.Report.Solution
	row.Squares = len(sol.Squares)
	row.Base = sol.Score.Base
	row.Score = sol.RealScore()
	row.Iterations = c.Report.Iterations
	row.Elapsed = c.Report.Elapsed
	row.RunID = sol.RunID
	return row
}

// Runs lists the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,label,recorded_at,settings_json,cases,failed,total,mean,std_dev,min,max
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r            Run
			recordedAt   string
			settingsJSON string
		)
		if err := rows.Scan(&r.ID, &r.Label, &recordedAt, &settingsJSON, &r.Summary.Cases, &r.Failed,
			&r.Summary.Total, &r.Summary.Mean, &r.Summary.StdDev, &r.Summary.Min, &r.Summary.Max); err != nil {
			return nil, err
		}
		if r.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("run %d: bad timestamp: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(settingsJSON), &r.Settings); err != nil {
			return nil, fmt.Errorf("run %d: bad settings: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Cases returns the cases of a run in their original order.
func (s *Store) Cases(ctx context.Context, run int64) ([]Case, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT instance,n,m,squares,base,score,iterations,elapsed,run_id,err
		 FROM cases WHERE run=? ORDER BY seq`, run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []Case
	for rows.Next() {
		var c Case
		if err := rows.Scan(&c.Instance, &c.N, &c.M, &c.Squares, &c.Base, &c.Score,
			&c.Iterations, &c.Elapsed, &c.RunID, &c.Err); err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// BestScores returns the best score ever recorded per instance name.
func (s *Store) BestScores(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT instance, MAX(score) FROM cases WHERE err = '' GROUP BY instance`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	best := make(map[string]int)
	for rows.Next() {
		var (
			name  string
			score int
		)
		if err := rows.Scan(&name, &score); err != nil {
			return nil, err
		}
		best[name] = score
	}
	return best, rows.Err()
}

// Delete removes a run and its cases.
func (s *Store) Delete(ctx context.Context, run int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id=?`, run)
	return err
}
