// Package historytest builds Chrome-shaped History databases for tests.
package historytest

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/chromexport/internal/history"
)

// Row is a urls row as Chrome stores it.
type Row struct {
	Title         string
	URL           string
	LastVisitTime int64 // microseconds since 1601-01-01
	VisitCount    int64
}

// CreateDB writes a History database at path holding rows.
func CreateDB(t testing.TB, path string, rows ...Row) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, NewSchemaRunner(db).Run())

	for _, r := range rows {
		_, err := db.Exec(
			"INSERT INTO urls (url, title, visit_count, last_visit_time) VALUES (?, ?, ?, ?)",
			r.URL, r.Title, r.VisitCount, r.LastVisitTime,
		)
		require.NoError(t, err)
	}
	return path
}

// NewDB writes a History database into a fresh temp directory.
func NewDB(t testing.TB, rows ...Row) string {
	t.Helper()
	return CreateDB(t, filepath.Join(t.TempDir(), "History"), rows...)
}

// CreateProfiles lays out base/<profile>/History for each profile name, each
// database holding rows.
func CreateProfiles(t testing.TB, base string, profiles []string, rows ...Row) {
	t.Helper()
	for _, p := range profiles {
		CreateDB(t, filepath.Join(base, p, "History"), rows...)
	}
}

// ExampleRows are the two rows of the reference export scenario.
func ExampleRows() []Row {
	return []Row{
		{Title: "Example", URL: "http://example.com", LastVisitTime: 0, VisitCount: 5},
		{Title: "Test", URL: "http://test.com", LastVisitTime: 1_000_000, VisitCount: 1},
	}
}

// FakeRows returns n deterministic pseudo-random rows visited in 2020-2024.
func FakeRows(seed int64, n int) []Row {
	f := gofakeit.New(seed)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	rows := make([]Row, n)
	for i := range rows {
		visited := f.DateRange(start, end)
		rows[i] = Row{
			Title:         f.Sentence(f.Number(2, 12)),
			URL:           f.URL(),
			LastVisitTime: history.ToChromeTime(visited),
			VisitCount:    int64(f.Number(1, 500)),
		}
	}
	return rows
}

// Exec runs stmt against the SQLite file at path, creating it if needed.
func Exec(t testing.TB, path, stmt string, args ...interface{}) {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(stmt, args...)
	require.NoError(t, err)
}
