package export

import (
	"fmt"
	"html"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/runnerr0/chromexport/internal/apperr"
	"github.com/runnerr0/chromexport/internal/history"
	"github.com/runnerr0/chromexport/internal/logging"
)

// RowNumberHeader is the header of the optional leading row-number column.
const RowNumberHeader = "Row #"

// Ellipsis marks a truncated value.
const Ellipsis = "..."

// Ordering is a sort direction.
type Ordering int

const (
	Descending Ordering = iota
	Ascending
)

func (o Ordering) String() string {
	if o == Ascending {
		return "ASC"
	}
	return "DESC"
}

// ParseOrdering accepts "asc"/"ascending" and "desc"/"descending".
func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending", "":
		return Descending, nil
	}
	return Descending, fmt.Errorf("unknown ordering %q", s)
}

// Table is the converted, render-ready form of a list of entries.
type Table struct {
	Headers []string
	Rows    [][]string
	// Markup flags columns whose cells already hold HTML and must not be
	// escaped again.
	Markup []bool
}

// Converter turns history entries into string rows.
type Converter struct {
	Fields     []Field
	OrderBy    Field
	Order      Ordering
	Truncate   TruncateConfig
	RowNumbers bool
	Observer   Observer // optional
	Log        logrus.FieldLogger
}

func (c *Converter) logger() logrus.FieldLogger {
	if c.Log != nil {
		return c.Log
	}
	return logging.Discard()
}

func (c *Converter) fields() []Field {
	if len(c.Fields) == 0 {
		return AllFields()
	}
	return c.Fields
}

// Convert sorts a copy of entries and projects each one into a row for
// format. entries is left untouched, so repeated calls are independent.
func (c *Converter) Convert(entries []history.Entry, format Format) (*Table, error) {
	log := c.logger()
	fields := c.fields()

	sorted := make([]history.Entry, len(entries))
	copy(sorted, entries)

	log.Infof("Ordering data by field '%s', ordering: %s", c.OrderBy, c.Order)
	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := c.OrderBy.compare(sorted[i], sorted[j])
		if c.Order == Descending {
			return cmp > 0
		}
		return cmp < 0
	})

	t := &Table{}
	if c.RowNumbers {
		t.Headers = append(t.Headers, RowNumberHeader)
		t.Markup = append(t.Markup, false)
	}
	for _, f := range fields {
		t.Headers = append(t.Headers, f.DisplayName())
		t.Markup = append(t.Markup, format == FormatHTML && f.Type() == TypeURL)
	}

	t.Rows = make([][]string, 0, len(sorted))
	for i, e := range sorted {
		raw := make(map[Field]string, len(fields))
		for _, f := range fields {
			raw[f] = f.Value(e)
		}
		if c.Observer != nil {
			c.Observer.Observe(raw)
		}

		row := make([]string, 0, len(t.Headers))
		if c.RowNumbers {
			row = append(row, strconv.Itoa(i+1))
		}
		for _, f := range fields {
			cell, err := c.cell(log, f, raw[f], format)
			if err != nil {
				return nil, err
			}
			row = append(row, cell)
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// cell applies truncation and markup to a single projected value.
func (c *Converter) cell(log logrus.FieldLogger, f Field, value string, format Format) (string, error) {
	truncate := c.Truncate[f]

	switch {
	case f.IsText():
		display := value
		if truncate {
			if cut, ok := truncateText(value, f.MaxLength()); ok {
				log.WithFields(logrus.Fields{
					"field":           f.Key(),
					"original_length": len([]rune(value)),
					"new_length":      f.MaxLength(),
				}).Debugf("Truncated %s", f)
				display = cut
			}
		}
		if format == FormatHTML && f.Type() == TypeURL {
			return htmlLink(value, display), nil
		}
		return display, nil

	case f.Type() == TypeDateTime && truncate:
		ts, err := ParseDateTime(value)
		if err != nil {
			return "", fmt.Errorf("%w: malformed %s value %q: %w", apperr.ErrDatabase, f, value, err)
		}
		short := ts.Format(DateLayout)
		log.Debugf("Truncated date. Original value: %s, New value: %s", value, short)
		return short, nil
	}

	return value, nil
}

// truncateText cuts s to max runes followed by Ellipsis. It reports whether
// s was cut.
func truncateText(s string, max int) (string, bool) {
	if max < 0 {
		return s, false
	}
	r := []rune(s)
	if len(r) <= max {
		return s, false
	}
	return string(r[:max]) + Ellipsis, true
}

// linkSchemes are the URL schemes rendered as live links in HTML exports.
var linkSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "file": true}

// htmlLink links to target, showing text. Targets with any other scheme, such
// as javascript: bookmarklets, are emitted as escaped text only.
func htmlLink(target, text string) string {
	u, err := url.Parse(target)
	if err != nil || !linkSchemes[strings.ToLower(u.Scheme)] {
		return html.EscapeString(text)
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(target), html.EscapeString(text))
}
