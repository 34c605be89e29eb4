package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/runnerr0/chromexport/internal/history"
)

// Timestamp layouts for datetime fields: full precision, and the date-only
// form used when a datetime field is truncated.
const (
	DateTimeLayout = "2006-01-02 15:04:05.000000"
	DateLayout     = "2006-01-02"
)

// FieldType is the semantic type of a Field.
type FieldType int

const (
	TypeString FieldType = iota
	TypeURL
	TypeDateTime
	TypeInteger
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeURL:
		return "url"
	case TypeDateTime:
		return "datetime"
	case TypeInteger:
		return "integer"
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// Field identifies an exportable column of a history entry.
type Field int

const (
	FieldTitle Field = iota
	FieldURL
	FieldLastVisitTime
	FieldVisitCount
)

type fieldSpec struct {
	display string
	key     string
	typ     FieldType
	maxLen  int // -1 means unbounded
}

var fieldSpecs = [...]fieldSpec{
	FieldTitle:         {"Title", "title", TypeString, 70},
	FieldURL:           {"URL", "url", TypeURL, 100},
	FieldLastVisitTime: {"Last visit time", "last_visit_time", TypeDateTime, -1},
	FieldVisitCount:    {"Visit count", "visit_count", TypeInteger, -1},
}

// AllFields returns every field in default column order.
func AllFields() []Field {
	return []Field{FieldTitle, FieldURL, FieldLastVisitTime, FieldVisitCount}
}

// ParseField looks a field up by its key, e.g. "last_visit_time".
func ParseField(key string) (Field, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for i, s := range fieldSpecs {
		if s.key == k {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", key)
}

func (f Field) spec() fieldSpec {
	if f < 0 || int(f) >= len(fieldSpecs) {
		panic(fmt.Sprintf("export: invalid field %d", int(f)))
	}
	return fieldSpecs[f]
}

// DisplayName is the column header of f.
func (f Field) DisplayName() string { return f.spec().display }

// Key is the source column name of f.
func (f Field) Key() string { return f.spec().key }

// Type is the semantic type of f.
func (f Field) Type() FieldType { return f.spec().typ }

// MaxLength is the truncation length of f, or -1 when f is never cut.
func (f Field) MaxLength() int { return f.spec().maxLen }

// IsText reports whether f holds a string that truncation may shorten.
func (f Field) IsText() bool {
	t := f.Type()
	return t == TypeString || t == TypeURL
}

func (f Field) String() string { return f.Key() }

// Value renders the field of e in its natural string form.
func (f Field) Value(e history.Entry) string {
	switch f {
	case FieldTitle:
		return e.Title
	case FieldURL:
		return e.URL
	case FieldLastVisitTime:
		return e.LastVisitTime.Format(DateTimeLayout)
	case FieldVisitCount:
		return strconv.FormatInt(e.VisitCount, 10)
	}
	panic(fmt.Sprintf("export: invalid field %d", int(f)))
}

// compare orders a and b by the underlying value of f.
func (f Field) compare(a, b history.Entry) int {
	switch f {
	case FieldTitle:
		return strings.Compare(a.Title, b.Title)
	case FieldURL:
		return strings.Compare(a.URL, b.URL)
	case FieldLastVisitTime:
		return a.LastVisitTime.Compare(b.LastVisitTime)
	case FieldVisitCount:
		switch {
		case a.VisitCount < b.VisitCount:
			return -1
		case a.VisitCount > b.VisitCount:
			return 1
		}
		return 0
	}
	panic(fmt.Sprintf("export: invalid field %d", int(f)))
}

// ParseDateTime reads a value produced by Value for a datetime field.
func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(DateTimeLayout, s)
}

// TruncateConfig selects the fields whose output is shortened.
type TruncateConfig map[Field]bool

// NewTruncateConfig enables truncation of text fields when text is set and
// date-only rendering of datetime fields when dateOnly is set.
func NewTruncateConfig(text, dateOnly bool) TruncateConfig {
	cfg := TruncateConfig{}
	for _, f := range AllFields() {
		switch f.Type() {
		case TypeString, TypeURL:
			cfg[f] = text
		case TypeDateTime:
			cfg[f] = dateOnly
		default:
			cfg[f] = false
		}
	}
	return cfg
}
