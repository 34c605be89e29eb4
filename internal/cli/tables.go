package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/runnerr0/chromexport/internal/export"
	"github.com/runnerr0/chromexport/internal/history"
)

// tableWrapWidth bounds the width of a sqlite_master cell; CREATE statements
// wrap on spaces.
const tableWrapWidth = 80

type tableJSON struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	TblName  string `json:"tbl_name"`
	RootPage int64  `json:"rootpage"`
	SQL      string `json:"sql"`
}

type tablesJSON struct {
	File   string      `json:"file"`
	Tables []tableJSON `json:"tables"`
}

// Execute implements the go-flags Commander interface for TablesCommand.
func (c *TablesCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log, err := newLogger(c.globals, cfg, false, time.Now())
	if err != nil {
		return err
	}
	defer log.Close()

	return c.executeWithReader(context.Background(), history.NewSQLiteReader(log))
}

// executeWithReader lists tables through the given reader (for testing).
func (c *TablesCommand) executeWithReader(ctx context.Context, reader history.Reader) error {
	var out []tablesJSON
	for _, f := range c.Args.Files {
		tables, err := reader.ListTables(ctx, f)
		if err != nil {
			return err
		}

		if c.globals != nil && c.globals.JSON {
			entry := tablesJSON{File: f, Tables: make([]tableJSON, len(tables))}
			for i, t := range tables {
				entry.Tables[i] = tableJSON{Type: t.Type, Name: t.Name, TblName: t.TblName, RootPage: t.RootPage, SQL: t.SQL}
			}
			out = append(out, entry)
			continue
		}

		fmt.Printf("Tables of %s:\n", f)
		if err := renderTables(os.Stdout, tables); err != nil {
			return err
		}
		fmt.Println()
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(out)
	}
	return nil
}

// renderTables writes tables as a numbered grid.
func renderTables(w io.Writer, tables []history.Table) error {
	headers := append([]string{"Row"}, history.TableColumns...)
	rows := make([][]string, len(tables))
	for i, t := range tables {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			t.Type,
			t.Name,
			t.TblName,
			strconv.FormatInt(t.RootPage, 10),
			t.SQL,
		}
	}
	return export.RenderGrid(w, headers, rows, tableWrapWidth)
}

// logTables logs the table grid of one database at info level.
func logTables(ctx context.Context, reader history.Reader, path string, log logrus.FieldLogger) error {
	tables, err := reader.ListTables(ctx, path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := renderTables(&buf, tables); err != nil {
		return err
	}
	log.Infof("Printing DB tables of Chrome history database, file: %s\n%s", path, buf.String())
	return nil
}
