package history

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleEntries() []Entry {
	return []Entry{
		{Title: "Go", URL: "https://go.dev/doc", LastVisitTime: day(2024, 5, 3), VisitCount: 9},
		{Title: "News", URL: "https://news.ycombinator.com/", LastVisitTime: day(2024, 5, 1), VisitCount: 3},
		{Title: "Go Blog", URL: "https://go.dev/blog", LastVisitTime: day(2024, 4, 20), VisitCount: 2},
		{Title: "Example", URL: "http://example.com", LastVisitTime: WinEpoch, VisitCount: 5},
	}
}

func TestDefaultDateRange_IsDefault(t *testing.T) {
	assert.True(t, DefaultDateRange().IsDefault())
	assert.False(t, DateRange{From: day(2024, 1, 1), To: DefaultTo}.IsDefault())
	assert.False(t, DateRange{From: DefaultFrom, To: day(2024, 1, 1)}.IsDefault())
}

func TestDateRange_ContainsIsInclusive(t *testing.T) {
	r := DateRange{From: day(2024, 5, 1), To: day(2024, 5, 3)}
	assert.True(t, r.Contains(day(2024, 5, 1)))
	assert.True(t, r.Contains(day(2024, 5, 3)))
	assert.False(t, r.Contains(day(2024, 5, 3).Add(time.Microsecond)))
	assert.False(t, r.Contains(day(2024, 4, 30)))
}

func TestFilter_NoCriteriaPassesThrough(t *testing.T) {
	entries := sampleEntries()
	got := Filter{Range: DefaultDateRange()}.Apply(entries)
	assert.Equal(t, entries, got)
}

func TestFilter_ZeroRangeIsUnbounded(t *testing.T) {
	entries := sampleEntries()
	assert.Equal(t, entries, Filter{}.Apply(entries))

	got := Filter{URLContains: "go.dev"}.Apply(entries)
	assert.Equal(t, []Entry{entries[0], entries[2]}, got)
}

func TestFilter_ZeroBoundFallsBackToDefault(t *testing.T) {
	entries := sampleEntries()
	got := Filter{Range: DateRange{From: day(2024, 5, 1)}}.Apply(entries)
	assert.Equal(t, entries[:2], got)

	got = Filter{Range: DateRange{To: day(2024, 4, 30)}}.Apply(entries)
	assert.Equal(t, entries[2:], got)
}

func TestFilter_DateRange(t *testing.T) {
	entries := sampleEntries()
	r := DateRange{From: day(2024, 5, 1), To: day(2024, 5, 3)}

	got := Filter{Range: r}.Apply(entries)

	assert.Len(t, got, 2)
	for _, e := range got {
		assert.True(t, r.Contains(e.LastVisitTime), "%s outside range", e.LastVisitTime)
		assert.Contains(t, entries, e)
	}
	// Input order preserved
	assert.Equal(t, "Go", got[0].Title)
	assert.Equal(t, "News", got[1].Title)
}

func TestFilter_URLSubstringIsLiteralAndCaseSensitive(t *testing.T) {
	entries := append(sampleEntries(), Entry{Title: "Upper", URL: "https://GO.DEV/", LastVisitTime: day(2024, 1, 1)})

	got := Filter{Range: DefaultDateRange(), URLContains: "go.dev"}.Apply(entries)
	assert.Len(t, got, 2)
	for _, e := range got {
		assert.Contains(t, e.URL, "go.dev")
	}

	// Regex metacharacters are not interpreted
	got = Filter{Range: DefaultDateRange(), URLContains: "go.dev/.*"}.Apply(entries)
	assert.Empty(t, got)
}

func TestFilter_DateThenSubstring(t *testing.T) {
	entries := sampleEntries()
	f := Filter{
		Range:       DateRange{From: day(2024, 5, 1), To: day(2024, 5, 31)},
		URLContains: "go.dev",
	}

	got := f.Apply(entries)

	// "Go Blog" matches the substring but falls outside the range.
	assert.Len(t, got, 1)
	assert.Equal(t, "Go", got[0].Title)
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	entries := sampleEntries()
	before := append([]Entry(nil), entries...)

	_ = Filter{Range: DateRange{From: day(2024, 5, 2), To: DefaultTo}, URLContains: "go"}.Apply(entries)

	assert.Equal(t, before, entries)
}

func TestFilter_LogsActiveCriteria(t *testing.T) {
	logger, hook := test.NewNullLogger()

	_ = Filter{Range: DateRange{From: day(2024, 5, 2), To: DefaultTo}, URLContains: "go", Log: logger}.Apply(sampleEntries())

	assert.Len(t, hook.AllEntries(), 2)
	assert.Contains(t, hook.LastEntry().Message, "URL substring")
}
