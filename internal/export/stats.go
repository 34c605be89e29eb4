package export

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Observer receives every projected row before truncation or markup.
type Observer interface {
	Observe(row map[Field]string)
}

// RowStats records the longest value per field, the longest joined line and
// the distinct values of selected fields.
type RowStats struct {
	fields      []Field
	trackUnique []Field

	rows        int
	longest     map[Field]string
	unique      map[Field]map[string]struct{}
	longestLine string
}

// NewRowStats creates a RowStats over fields, keeping distinct values of
// trackUnique.
func NewRowStats(fields []Field, trackUnique ...Field) *RowStats {
	s := &RowStats{
		fields:      fields,
		trackUnique: trackUnique,
		longest:     make(map[Field]string, len(fields)),
		unique:      make(map[Field]map[string]struct{}, len(trackUnique)),
	}
	for _, f := range trackUnique {
		s.unique[f] = map[string]struct{}{}
	}
	return s
}

// Observe implements Observer.
func (s *RowStats) Observe(row map[Field]string) {
	s.rows++

	values := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		v, ok := row[f]
		if !ok {
			continue
		}
		if len(v) > len(s.longest[f]) {
			s.longest[f] = v
		}
		values = append(values, v)
	}

	for _, f := range s.trackUnique {
		if v, ok := row[f]; ok {
			s.unique[f][v] = struct{}{}
		}
	}

	if line := strings.Join(values, ","); len(line) > len(s.longestLine) {
		s.longestLine = line
	}
}

// Rows is the number of rows observed.
func (s *RowStats) Rows() int { return s.rows }

// Longest is the longest value seen for f.
func (s *RowStats) Longest(f Field) string { return s.longest[f] }

// LongestLine is the longest comma-joined row seen.
func (s *RowStats) LongestLine() string { return s.longestLine }

// UniqueCount is the number of distinct values seen for a tracked field.
func (s *RowStats) UniqueCount(f Field) int { return len(s.unique[f]) }

// Log writes a summary of the collected statistics.
func (s *RowStats) Log(log logrus.FieldLogger) {
	log.Debugf("Longest line is %d characters long", len(s.longestLine))
	for _, f := range s.trackUnique {
		log.Debugf("Longest value of field '%s' is %d characters long", f, len(s.longest[f]))
		log.Infof("Number of unique values of field '%s': %d", f, len(s.unique[f]))
	}
}
