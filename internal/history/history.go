// Package history persists a ledger of generated runs so prior
// sweeps can be inspected after the fact.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Entry is one recorded generate invocation.
type Entry struct {
	ID         string
	When       time.Time
	Experiment string
	SpecPath   string
	Commands   int
	OutputPath string
}

// Ledger is a SQLite-backed run ledger.
type Ledger struct {
	db *sql.DB
}

// Open opens (and if necessary initializes) the ledger at path.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening ledger: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			at          INTEGER NOT NULL,
			experiment  TEXT NOT NULL,
			spec_path   TEXT NOT NULL,
			commands    INTEGER NOT NULL,
			output_path TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: initializing schema: %w", err)
	}

	var version string
	err = db.QueryRow(`SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.Exec(
			`INSERT INTO metadata (key, value) VALUES ('schema_version', ?)`,
			schemaVersion,
		); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: setting schema version: %w", err)
		}
	case err != nil:
		db.Close()
		return nil, fmt.Errorf("history: reading schema version: %w", err)
	case version != schemaVersion:
		db.Close()
		return nil, fmt.Errorf("history: unsupported schema version %s (expected %s)",
			version, schemaVersion)
	}
	return &Ledger{db: db}, nil
}

// Record appends one run to the ledger and returns its assigned ID.
func (l *Ledger) Record(experiment, specPath string, commands int, outputPath string) (string, error) {
	id := uuid.NewString()
	_, err := l.db.Exec(
		`INSERT INTO runs (id, at, experiment, spec_path, commands, output_path)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().Unix(), experiment, specPath, commands, outputPath,
	)
	if err != nil {
		return "", fmt.Errorf("history: recording run: %w", err)
	}
	return id, nil
}

// Recent returns up to n entries, newest first.
func (l *Ledger) Recent(n int) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT id, at, experiment, spec_path, commands, output_path
		 FROM runs ORDER BY at DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: listing runs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.ID, &at, &e.Experiment, &e.SpecPath, &e.Commands, &e.OutputPath); err != nil {
			return nil, fmt.Errorf("history: scanning run: %w", err)
		}
		e.When = time.Unix(at, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error { return l.db.Close() }
