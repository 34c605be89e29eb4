package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/chromexport/internal/apperr"
	"github.com/runnerr0/chromexport/internal/config"
	"github.com/runnerr0/chromexport/internal/history"
	"github.com/runnerr0/chromexport/internal/logging"
)

// loadConfig resolves the configuration: --config if given, else the default
// path (created on first use), then CHROMEXPORT_* overrides.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if globals != nil && globals.Config != "" {
		cfg, err = config.Load(globals.Config)
	} else {
		cfg, err = config.LoadOrCreate()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrConfiguration, err)
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrConfiguration, err)
	}
	return cfg, nil
}

// newLogger builds the run logger. The log file is only written when
// withFile is set and the config enables it.
func newLogger(globals *GlobalFlags, cfg *config.Config, withFile bool, now time.Time) (*logging.Logger, error) {
	opts := logging.Options{
		Level: cfg.Logging.Level,
		Now:   now,
	}
	if globals != nil {
		opts.Verbose = globals.Verbose
	}
	if withFile && cfg.Logging.FileEnabled {
		dir, err := cfg.LogPath()
		if err != nil {
			return nil, err
		}
		opts.Dir = dir
	}

	log, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrConfiguration, err)
	}
	return log, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDate parses an ISO 8601 date or date-time. A bare date used as an
// upper bound is moved to the last microsecond of that day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	for i, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		if i == 0 && endOfDay {
			t = t.Add(24*time.Hour - time.Microsecond)
		}
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperr.ErrConfiguration, s)
}

// parseDateRange builds the filter range from --from-date and --to-date.
// Omitted bounds keep their defaults.
func parseDateRange(from, to string) (history.DateRange, error) {
	r := history.DefaultDateRange()
	if from != "" {
		t, err := parseDate(from, false)
		if err != nil {
			return r, err
		}
		r.From = t
	}
	if to != "" {
		t, err := parseDate(to, true)
		if err != nil {
			return r, err
		}
		r.To = t
	}
	if r.From.After(r.To) {
		return r, fmt.Errorf("%w: --from-date %s is after --to-date %s", apperr.ErrConfiguration, from, to)
	}
	return r, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
