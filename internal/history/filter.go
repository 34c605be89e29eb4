package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Bounds of the valid Chrome timestamp domain.
var (
	DefaultFrom = WinEpoch
	DefaultTo   = time.Date(2399, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// DateRange is an inclusive [From, To] interval.
type DateRange struct {
	From time.Time
	To   time.Time
}

// DefaultDateRange spans the whole Chrome timestamp domain.
func DefaultDateRange() DateRange {
	return DateRange{From: DefaultFrom, To: DefaultTo}
}

// IsDefault reports whether r is at least as wide as the default range.
func (r DateRange) IsDefault() bool {
	return !r.From.After(DefaultFrom) && !r.To.Before(DefaultTo)
}

// Contains reports whether t lies within r, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// withDefaults replaces a zero bound with the matching default bound.
func (r DateRange) withDefaults() DateRange {
	if r.From.IsZero() {
		r.From = DefaultFrom
	}
	if r.To.IsZero() {
		r.To = DefaultTo
	}
	return r
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.From.Format(time.RFC3339), r.To.Format(time.RFC3339))
}

// Filter narrows a list of entries by date range and URL substring.
type Filter struct {
	// Range bounds left zero fall back to the default range.
	Range DateRange
	// URLContains is matched literally and case-sensitively. Empty disables it.
	URLContains string

	Log logrus.FieldLogger
}

// Apply returns the entries that pass every active criterion, in input order.
// The date filter runs first and the substring filter runs over its output.
// With no active criterion the input slice is returned as is.
func (f Filter) Apply(entries []Entry) []Entry {
	out := entries

	if r := f.Range.withDefaults(); !r.IsDefault() {
		f.logf("Filtering by date range: %s", r)
		out = keep(out, func(e Entry) bool { return r.Contains(e.LastVisitTime) })
	}

	if f.URLContains != "" {
		f.logf("Filtering by URL substring: %q", f.URLContains)
		out = keep(out, func(e Entry) bool { return strings.Contains(e.URL, f.URLContains) })
	}

	return out
}

func (f Filter) logf(format string, args ...interface{}) {
	if f.Log != nil {
		f.Log.Infof(format, args...)
	}
}

func keep(entries []Entry, pred func(Entry) bool) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}
