package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/chromexport/internal/history"
)

func TestFieldMetadata(t *testing.T) {
	tests := []struct {
		field   Field
		display string
		key     string
		typ     FieldType
		maxLen  int
	}{
		{FieldTitle, "Title", "title", TypeString, 70},
		{FieldURL, "URL", "url", TypeURL, 100},
		{FieldLastVisitTime, "Last visit time", "last_visit_time", TypeDateTime, -1},
		{FieldVisitCount, "Visit count", "visit_count", TypeInteger, -1},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.display, tc.field.DisplayName())
		assert.Equal(t, tc.key, tc.field.Key())
		assert.Equal(t, tc.typ, tc.field.Type())
		assert.Equal(t, tc.maxLen, tc.field.MaxLength())
	}
}

func TestFieldIsText(t *testing.T) {
	assert.True(t, FieldTitle.IsText())
	assert.True(t, FieldURL.IsText())
	assert.False(t, FieldLastVisitTime.IsText())
	assert.False(t, FieldVisitCount.IsText())
}

func TestParseField(t *testing.T) {
	f, err := ParseField("Last_Visit_Time")
	require.NoError(t, err)
	assert.Equal(t, FieldLastVisitTime, f)

	_, err = ParseField("favicon")
	assert.Error(t, err)
}

func TestFieldValue(t *testing.T) {
	e := history.Entry{
		Title:         "Go",
		URL:           "https://go.dev",
		LastVisitTime: time.Date(2024, 2, 29, 13, 14, 15, 16000, time.UTC),
		VisitCount:    1234,
	}
	assert.Equal(t, "Go", FieldTitle.Value(e))
	assert.Equal(t, "https://go.dev", FieldURL.Value(e))
	assert.Equal(t, "2024-02-29 13:14:15.000016", FieldLastVisitTime.Value(e))
	assert.Equal(t, "1234", FieldVisitCount.Value(e))
}

func TestNewTruncateConfig(t *testing.T) {
	cfg := NewTruncateConfig(true, false)
	assert.True(t, cfg[FieldTitle])
	assert.True(t, cfg[FieldURL])
	assert.False(t, cfg[FieldLastVisitTime])
	assert.False(t, cfg[FieldVisitCount])

	cfg = NewTruncateConfig(false, true)
	assert.False(t, cfg[FieldTitle])
	assert.True(t, cfg[FieldLastVisitTime])
}
