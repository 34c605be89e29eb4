package history

import "time"

// Entry is a single row of the Chrome urls table.
type Entry struct {
	Title         string
	URL           string
	LastVisitTime time.Time
	VisitCount    int64
}

// Table is one row of sqlite_master describing a table in a history database.
type Table struct {
	Type     string
	Name     string
	TblName  string
	RootPage int64
	SQL      string
}

// TableColumns are the sqlite_master columns returned by ListTables, in order.
var TableColumns = []string{"type", "name", "tbl_name", "rootpage", "sql"}
