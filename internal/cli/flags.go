package cli

import (
	"io"
	"time"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `short:"v" long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ExportCommand reads Chrome history databases and writes text, CSV or HTML
// exports. Unset flags fall back to the config file.
type ExportCommand struct {
	Mode          string   `short:"m" long:"mode" description:"Export mode: text | csv | html | all"`
	FromDate      string   `long:"from-date" description:"Only entries visited on or after this date (YYYY-MM-DD)"`
	ToDate        string   `long:"to-date" description:"Only entries visited on or before this date (YYYY-MM-DD, whole day included)"`
	URLFilter     string   `long:"url-filter" description:"Only entries whose URL contains this text"`
	DBFiles       []string `short:"f" long:"db-file" description:"History database file to export (repeatable)"`
	SearchDBFiles bool     `short:"s" long:"search-db-files" description:"Search the Chrome directory for profile databases"`
	SearchBaseDir string   `long:"search-basedir" description:"Directory searched for History files (default from config)"`
	Profile       string   `short:"p" long:"profile" description:"Profile to export, '*' for all" default:"*"`
	NoTruncate    bool     `long:"no-truncate" description:"Do not shorten long titles and URLs"`
	DateOnly      bool     `long:"date-only" description:"Print visit times as dates"`
	OrderBy       string   `long:"order-by" description:"Sort field: title | url | last_visit_time | visit_count"`
	Ascending     bool     `long:"ascending" description:"Sort ascending instead of descending"`
	NoRowNumbers  bool     `long:"no-row-numbers" description:"Omit the leading row number column"`
	ListDBTables  bool     `short:"l" long:"list-db-tables" description:"Log the tables of each database before exporting"`
	OutputDir     string   `short:"o" long:"output-dir" description:"Directory receiving the export run (default from config)"`

	globals *GlobalFlags
	version string
	now     func() time.Time // injectable for testing
	stderr  io.Writer        // progress output; nil means os.Stderr
}

// TablesCommand lists the tables of history database files.
type TablesCommand struct {
	Args struct {
		Files []string `positional-arg-name:"DB_FILE" required:"1"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// ProfilesCommand lists the Chrome profiles that have a history database.
type ProfilesCommand struct {
	SearchBaseDir string `long:"search-basedir" description:"Directory searched for History files (default from config)"`
	All           bool   `long:"all" description:"Include profiles excluded by the config"`

	globals *GlobalFlags
	version string
}
