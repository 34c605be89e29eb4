package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHROMEXPORT_"

// DefaultEnvFiles are the .env files ApplyEnv loads when none are given.
var DefaultEnvFiles = []string{".env", "~/.config/chromexport/.env"}

// ApplyEnv loads the given .env files (DefaultEnvFiles when empty) into the
// process environment and then applies CHROMEXPORT_* overrides to cfg.
// Files that do not exist are skipped; variables already set in the
// environment win over .env values.
func ApplyEnv(cfg *Config, envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = DefaultEnvFiles
	}
	for _, f := range envFiles {
		path, err := ExpandPath(f)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file %s: %w", path, err)
		}
	}

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("SEARCH_BASEDIR", &cfg.Chrome.SearchBaseDir)
	str("HISTORY_FILE", &cfg.Chrome.HistoryFile)
	if v, ok := os.LookupEnv(EnvPrefix + "EXCLUDE_PROFILES"); ok {
		cfg.Chrome.ExcludeProfiles = splitList(v)
	}
	str("OUTPUT_ROOT", &cfg.Output.Root)
	str("EXPORT_MODE", &cfg.Export.Mode)
	str("ORDER_BY", &cfg.Export.OrderBy)
	str("ORDERING", &cfg.Export.Ordering)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_DIR", &cfg.Logging.Dir)
	str("METRICS_TEXTFILE", &cfg.Metrics.Textfile)

	for key, dst := range map[string]*bool{
		"TRUNCATE":    &cfg.Export.Truncate,
		"DATE_ONLY":   &cfg.Export.DateOnly,
		"ROW_NUMBERS": &cfg.Export.RowNumbers,
		"LOG_FILE":    &cfg.Logging.FileEnabled,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
