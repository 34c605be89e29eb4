package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Chrome: ChromeConfig{
			SearchBaseDir:   DefaultChromeDir(runtime.GOOS),
			HistoryFile:     "History",
			ExcludeProfiles: []string{"System Profile", "Guest Profile"},
		},
		Output: OutputConfig{
			Root:       "~/chromexport",
			ExportsDir: "exports",
			DirPrefix:  "exported-chrome-db",
		},
		Export: ExportConfig{
			Mode:       "all",
			Truncate:   true,
			DateOnly:   false,
			RowNumbers: true,
			OrderBy:    "last_visit_time",
			Ordering:   "desc",
		},
		Logging: LoggingConfig{
			Level:       "info",
			Dir:         "logs",
			FileEnabled: true,
		},
		Metrics: MetricsConfig{
			Textfile: "",
		},
	}
}

// DefaultChromeDir is where Google Chrome keeps its profiles on goos.
func DefaultChromeDir(goos string) string {
	switch goos {
	case "darwin":
		return "~/Library/Application Support/Google/Chrome"
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "Google", "Chrome", "User Data")
		}
		return "~/AppData/Local/Google/Chrome/User Data"
	default:
		return "~/.config/google-chrome"
	}
}
