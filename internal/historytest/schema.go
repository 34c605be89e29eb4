package historytest

import (
	"database/sql"
	"fmt"
	"strconv"
)

// migration represents a single step of the Chrome history schema.
type migration struct {
	Version int
	Name    string
	Apply   func(tx *sql.Tx) error
}

// SchemaRunner brings a SQLite database to the subset of Chrome's History
// schema chromexport reads. Progress is recorded in the meta table the way
// Chrome records its own schema version.
type SchemaRunner struct {
	db         *sql.DB
	migrations []migration
}

// NewSchemaRunner creates a SchemaRunner with every known schema step.
func NewSchemaRunner(db *sql.DB) *SchemaRunner {
	return &SchemaRunner{
		db: db,
		migrations: []migration{
			{Version: 1, Name: "urls", Apply: createURLs},
			{Version: 2, Name: "visits", Apply: createVisits},
		},
	}
}

// Run applies all pending steps in order.
func (r *SchemaRunner) Run() error {
	if _, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS meta (
			key   LONGVARCHAR NOT NULL UNIQUE PRIMARY KEY,
			value LONGVARCHAR
		)
	`); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	current, err := r.version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range r.migrations {
		if m.Version <= current {
			continue
		}
		if err := r.apply(m); err != nil {
			return fmt.Errorf("apply schema step %d (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// version returns the recorded schema version, 0 when none is recorded.
func (r *SchemaRunner) version() (int, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM meta WHERE key = 'version'").Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// apply executes a step inside a transaction and records the new version.
func (r *SchemaRunner) apply(m migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := m.Apply(tx); err != nil {
		return err
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)",
		strconv.Itoa(m.Version),
	); err != nil {
		return fmt.Errorf("record version: %w", err)
	}

	return tx.Commit()
}

func createURLs(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS urls (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			url             LONGVARCHAR,
			title           LONGVARCHAR,
			visit_count     INTEGER DEFAULT 0 NOT NULL,
			typed_count     INTEGER DEFAULT 0 NOT NULL,
			last_visit_time INTEGER NOT NULL,
			hidden          INTEGER DEFAULT 0 NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS urls_url_index ON urls (url)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func createVisits(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS visits (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			url             INTEGER NOT NULL,
			visit_time      INTEGER NOT NULL,
			from_visit      INTEGER,
			transition      INTEGER DEFAULT 0 NOT NULL,
			segment_id      INTEGER,
			visit_duration  INTEGER DEFAULT 0 NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS visits_url_index  ON visits (url)`,
		`CREATE INDEX IF NOT EXISTS visits_time_index ON visits (visit_time)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
