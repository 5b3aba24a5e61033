// Package resultdb stores the outcome of every pairwise comparison in a
// batch run in a SQLite database, so that runs can be summarized and queried
// after the fact.
package resultdb

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	input_dir  TEXT NOT NULL,
	output_dir TEXT NOT NULL,
	started    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS pairs (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	folder   TEXT NOT NULL,
	prefix   TEXT NOT NULL,
	name1    TEXT NOT NULL,
	name2    TEXT NOT NULL,
	status   TEXT NOT NULL,
	tm_score REAL NOT NULL DEFAULT 0,
	rmsd     REAL NOT NULL DEFAULT 0,
	matched  INTEGER NOT NULL DEFAULT 0,
	message  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, folder, name1, name2)
);
`

// Statuses of a pair.
const (
	StatusSucceeded = "succeeded"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Pair is the outcome of one comparison.
type Pair struct {
	RunID   string  `db:"run_id"`
	Folder  string  `db:"folder"`
	Prefix  string  `db:"prefix"`
	Name1   string  `db:"name1"`
	Name2   string  `db:"name2"`
	Status  string  `db:"status"`
	TMScore float64 `db:"tm_score"`
	RMSD    float64 `db:"rmsd"`
	Matched int     `db:"matched"`
	Message string  `db:"message"`
}

// Run describes one batch run.
type Run struct {
	ID        string    `db:"id"`
	InputDir  string    `db:"input_dir"`
	OutputDir string    `db:"output_dir"`
	Started   time.Time `db:"started"`
}

type DB struct {
	db   *sqlx.DB
	path string
}

// Open opens (creating if necessary) the database at path and makes sure the
// schema exists. The path ":memory:" opens a private in-memory database.
func Open(path string) (*DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("Could not open result database '%s': %w",
			path, err)
	}

	// An in-memory database only lives as long as its connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("Could not create schema in '%s': %w",
			path, err)
	}
	return &DB{db: db, path: path}, nil
}

// BeginRun records the start of a batch run.
func (db *DB) BeginRun(run Run) error {
	_, err := db.db.NamedExec(`
		INSERT INTO runs (id, input_dir, output_dir, started)
		VALUES (:id, :input_dir, :output_dir, :started)`, run)
	if err != nil {
		return fmt.Errorf("Could not record run '%s': %w", run.ID, err)
	}
	return nil
}

// Write records the outcome of a pair. Writing the same pair of the same
// run twice replaces the first outcome.
func (db *DB) Write(p Pair) error {
	_, err := db.db.NamedExec(`
		INSERT OR REPLACE INTO pairs
			(run_id, folder, prefix, name1, name2, status,
			 tm_score, rmsd, matched, message)
		VALUES
			(:run_id, :folder, :prefix, :name1, :name2, :status,
			 :tm_score, :rmsd, :matched, :message)`, p)
	if err != nil {
		return fmt.Errorf("Could not record pair %s vs %s: %w",
			p.Name1, p.Name2, err)
	}
	return nil
}

// Pairs returns every pair recorded for a run, ordered by folder and names.
func (db *DB) Pairs(runID string) ([]Pair, error) {
	var pairs []Pair
	err := db.db.Select(&pairs, `
		SELECT run_id, folder, prefix, name1, name2, status,
		       tm_score, rmsd, matched, message
		FROM pairs
		WHERE run_id = ?
		ORDER BY folder, name1, name2`, runID)
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

// Counts returns the number of pairs in a run for each status.
func (db *DB) Counts(runID string) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		N      int    `db:"n"`
	}
	err := db.db.Select(&rows, `
		SELECT status, COUNT(*) AS n
		FROM pairs
		WHERE run_id = ?
		GROUP BY status`, runID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

// Path returns the location of the database.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) Close() error {
	return db.db.Close()
}
