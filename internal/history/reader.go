package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/runnerr0/chromexport/internal/apperr"
	"github.com/runnerr0/chromexport/internal/logging"
)

const entriesQuery = `
	SELECT title, url, last_visit_time, visit_count
	FROM urls
	ORDER BY last_visit_time DESC
`

const tablesQuery = `
	SELECT type, name, tbl_name, rootpage, sql
	FROM main.sqlite_master
	WHERE type = 'table'
`

// Reader defines read access to Chrome history databases.
type Reader interface {
	ReadEntries(ctx context.Context, path string) ([]Entry, error)
	ListTables(ctx context.Context, path string) ([]Table, error)
}

// SQLiteReader implements Reader with a fresh read-only connection per call.
// It holds no state between calls.
type SQLiteReader struct {
	log logrus.FieldLogger
}

// NewSQLiteReader creates a SQLiteReader. A nil logger discards output.
func NewSQLiteReader(log logrus.FieldLogger) *SQLiteReader {
	if log == nil {
		log = logging.Discard()
	}
	return &SQLiteReader{log: log}
}

// readOnlyDSN builds a SQLite URI opening path read-only. Characters with a
// meaning in URIs are percent-encoded.
func readOnlyDSN(path string) string {
	escaped := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(path)
	return "file:" + escaped + "?mode=ro"
}

// open returns a single-connection handle on path.
func (r *SQLiteReader) open(ctx context.Context, path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", apperr.ErrDatabase, path, err)
	}

	db, err := sql.Open("sqlite3", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", apperr.ErrDatabase, path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: open %s: %w", apperr.ErrDatabase, path, err)
	}
	return db, nil
}

// ReadEntries returns every row of the urls table, most recent visit first.
func (r *SQLiteReader) ReadEntries(ctx context.Context, path string) ([]Entry, error) {
	db, err := r.open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	r.log.WithField("db", path).Debug("Querying history entries")

	rows, err := db.QueryContext(ctx, entriesQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query urls in %s: %w", apperr.ErrDatabase, path, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			title      sql.NullString
			url        sql.NullString
			lastVisit  sql.NullInt64
			visitCount sql.NullInt64
		)
		if err := rows.Scan(&title, &url, &lastVisit, &visitCount); err != nil {
			return nil, fmt.Errorf("%w: scan urls row in %s: %w", apperr.ErrDatabase, path, err)
		}
		e.Title = title.String
		e.URL = url.String
		e.LastVisitTime = FromChromeTime(lastVisit.Int64)
		e.VisitCount = visitCount.Int64
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read urls in %s: %w", apperr.ErrDatabase, path, err)
	}

	// Return empty slice rather than nil
	if entries == nil {
		entries = []Entry{}
	}

	r.log.WithField("db", path).Infof("Read %d history entries", len(entries))
	return entries, nil
}

// ListTables returns the sqlite_master rows describing tables in path.
func (r *SQLiteReader) ListTables(ctx context.Context, path string) ([]Table, error) {
	db, err := r.open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	r.log.WithField("db", path).Info("Listing database tables")

	rows, err := db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: list tables in %s: %w", apperr.ErrDatabase, path, err)
	}
	defer rows.Close()

	tables := []Table{}
	for rows.Next() {
		var t Table
		var stmt sql.NullString
		if err := rows.Scan(&t.Type, &t.Name, &t.TblName, &t.RootPage, &stmt); err != nil {
			return nil, fmt.Errorf("%w: scan table row in %s: %w", apperr.ErrDatabase, path, err)
		}
		t.SQL = stmt.String
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list tables in %s: %w", apperr.ErrDatabase, path, err)
	}
	return tables, nil
}
