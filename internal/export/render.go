package export

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Format is a single output representation.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// Extension is the file extension used for f, without the dot.
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// Mode selects which formats an export produces.
type Mode string

const (
	ModeText Mode = "text"
	ModeCSV  Mode = "csv"
	ModeHTML Mode = "html"
	ModeAll  Mode = "all"
)

// ParseMode validates an export mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeText, ModeCSV, ModeHTML, ModeAll:
		return m, nil
	}
	return "", fmt.Errorf("unknown export mode %q (use text, csv, html or all)", s)
}

// Formats lists the formats produced by m.
func (m Mode) Formats() []Format {
	switch m {
	case ModeText:
		return []Format{FormatText}
	case ModeCSV:
		return []Format{FormatCSV}
	case ModeHTML:
		return []Format{FormatHTML}
	case ModeAll:
		return []Format{FormatHTML, FormatCSV, FormatText}
	}
	return nil
}

// Render writes t to w in format.
func Render(w io.Writer, t *Table, format Format) error {
	switch format {
	case FormatText:
		return RenderText(w, t)
	case FormatCSV:
		return RenderCSV(w, t)
	case FormatHTML:
		return RenderHTML(w, t, "")
	}
	return fmt.Errorf("unknown format %q", format)
}

// RenderText writes t as a bordered grid with a line between rows.
func RenderText(w io.Writer, t *Table) error {
	return RenderGrid(w, t.Headers, t.Rows, 0)
}

// RenderGrid writes a grid of rows. A positive wrapWidth wraps cells wider
// than that many columns on spaces.
func RenderGrid(w io.Writer, headers []string, rows [][]string, wrapWidth int) error {
	ew := &errWriter{w: w}

	tw := tablewriter.NewWriter(ew)
	tw.SetHeader(headers)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetRowLine(true)
	if wrapWidth > 0 {
		tw.SetAutoWrapText(true)
		tw.SetColWidth(wrapWidth)
	} else {
		tw.SetAutoWrapText(false)
	}
	tw.AppendBulk(rows)
	tw.Render()

	return ew.err
}

// RenderCSV writes t as comma-separated values, header first.
func RenderCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	return cw.WriteAll(t.Rows)
}

var htmlDoc = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<table>
<thead>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// RenderHTML writes t as a standalone HTML document. Cells of Markup columns
// are emitted verbatim so links stay live; all other text is escaped.
func RenderHTML(w io.Writer, t *Table, title string) error {
	if title == "" {
		title = "Chrome history"
	}

	rows := make([][]interface{}, len(t.Rows))
	for i, r := range t.Rows {
		cells := make([]interface{}, len(r))
		for j, v := range r {
			if j < len(t.Markup) && t.Markup[j] {
				cells[j] = template.HTML(v) //nolint:gosec // built by htmlLink from escaped parts
			} else {
				cells[j] = v
			}
		}
		rows[i] = cells
	}

	return htmlDoc.Execute(w, struct {
		Title   string
		Headers []string
		Rows    [][]interface{}
	}{title, t.Headers, rows})
}

// errWriter keeps the first write error of a writer that cannot report it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
