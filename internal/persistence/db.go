// Package persistence records run results to SQLite: run metadata, the
// statistics series and the final outcome. It never stores simulation state,
// so nothing here can resume a run.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/contagion-city/internal/engine"
)

// DB wraps a SQLite connection for results recording.
type DB struct {
	conn *sqlx.DB
}

// Run is one recorded simulation run.
type Run struct {
	ID         string `db:"id"`
	Seed       int64  `db:"seed"`
	Population int    `db:"population"`
	ConfigJSON string `db:"config_json"`
	StartedAt  int64  `db:"started_at"` // Unix seconds
}

// SampleRow is one stored statistics sample.
type SampleRow struct {
	RunID     string  `db:"run_id"`
	Seq       int     `db:"seq"`
	SimTime   float64 `db:"sim_time"`
	Healthy   int     `db:"healthy"`
	Infected  int     `db:"infected"`
	Resistant int     `db:"resistant"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		population INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		started_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		sim_time REAL NOT NULL,
		healthy INTEGER NOT NULL,
		infected INTEGER NOT NULL,
		resistant INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE TABLE IF NOT EXISTS outcomes (
		run_id TEXT PRIMARY KEY REFERENCES runs(id),
		healthy INTEGER NOT NULL,
		infected INTEGER NOT NULL,
		recovered INTEGER NOT NULL,
		dead INTEGER NOT NULL,
		ticks INTEGER NOT NULL,
		sim_time REAL NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartRun registers a new run and returns its id. cfg is stored as JSON for
// later reference.
func (db *DB) StartRun(seed uint64, population int, cfg any) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	id := uuid.NewString()
	_, err = db.conn.Exec(
		"INSERT INTO runs (id, seed, population, config_json, started_at) VALUES (?, ?, ?, ?, ?)",
		// SQLite integers are signed; keep the seed's bits.
		id, int64(seed), population, string(cfgJSON), time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SaveSamples writes a batch of samples starting at sequence number first.
func (db *DB) SaveSamples(runID string, first int, samples []engine.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO samples
		(run_id, seq, sim_time, healthy, infected, resistant)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, s := range samples {
		if _, err := stmt.Exec(runID, first+i, s.Time, s.Healthy, s.Infected, s.Resistant); err != nil {
			return fmt.Errorf("insert sample %d: %w", first+i, err)
		}
	}

	return tx.Commit()
}

// SaveOutcome stores the final outcome of a run.
func (db *DB) SaveOutcome(runID string, o engine.Outcome, ticks uint64, simTime float64) error {
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO outcomes
		(run_id, healthy, infected, recovered, dead, ticks, sim_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, o.Healthy, o.Infected, o.Recovered, o.Dead, int64(ticks), simTime,
	)
	return err
}

// Samples returns the stored series of a run in order.
func (db *DB) Samples(runID string) ([]SampleRow, error) {
	var rows []SampleRow
	err := db.conn.Select(&rows,
		"SELECT run_id, seq, sim_time, healthy, infected, resistant FROM samples WHERE run_id = ? ORDER BY seq",
		runID,
	)
	return rows, err
}

// Runs returns the most recent runs, newest first.
func (db *DB) Runs(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT id, seed, population, config_json, started_at FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// Recorder buffers samples from a running simulation and flushes them in
// batches so the tick loop never waits on a transaction per sample.
type Recorder struct {
	DB        *DB
	RunID     string
	BatchSize int

	pending []engine.Sample
	written int
}

// NewRecorder starts a run in db and returns a recorder for it.
func NewRecorder(db *DB, seed uint64, population int, cfg any) (*Recorder, error) {
	id, err := db.StartRun(seed, population, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("recording run", "run_id", id)
	return &Recorder{DB: db, RunID: id, BatchSize: 64}, nil
}

// Record queues one sample, flushing when the batch is full.
func (r *Recorder) Record(s engine.Sample) {
	r.pending = append(r.pending, s)
	if len(r.pending) >= r.BatchSize {
		if err := r.Flush(); err != nil {
			slog.Error("sample flush failed", "run_id", r.RunID, "error", err)
		}
	}
}

// Flush writes all queued samples.
func (r *Recorder) Flush() error {
	if err := r.DB.SaveSamples(r.RunID, r.written, r.pending); err != nil {
		return fmt.Errorf("save samples: %w", err)
	}
	r.written += len(r.pending)
	r.pending = r.pending[:0]
	return nil
}

// Finish flushes remaining samples and stores the run's outcome.
func (r *Recorder) Finish(sim *engine.Simulation) error {
	if err := r.Flush(); err != nil {
		return err
	}
	if err := r.DB.SaveOutcome(r.RunID, sim.Outcome(), sim.TickCount, sim.Time); err != nil {
		return fmt.Errorf("save outcome: %w", err)
	}
	slog.Info("run recorded", "run_id", r.RunID, "samples", r.written)
	return nil
}
