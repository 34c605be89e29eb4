package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/chromexport/config.yaml"

// Config holds all chromexport configuration.
type Config struct {
	Chrome  ChromeConfig  `yaml:"chrome"`
	Output  OutputConfig  `yaml:"output"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ChromeConfig struct {
	SearchBaseDir   string   `yaml:"search_basedir"`
	HistoryFile     string   `yaml:"history_file"`
	ExcludeProfiles []string `yaml:"exclude_profiles"`
}

type OutputConfig struct {
	Root       string `yaml:"root"`
	ExportsDir string `yaml:"exports_dir"`
	DirPrefix  string `yaml:"dir_prefix"`
}

type ExportConfig struct {
	Mode       string `yaml:"mode"`
	Truncate   bool   `yaml:"truncate"`
	DateOnly   bool   `yaml:"date_only"`
	RowNumbers bool   `yaml:"row_numbers"`
	OrderBy    string `yaml:"order_by"`
	Ordering   string `yaml:"ordering"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Dir         string `yaml:"dir"`
	FileEnabled bool   `yaml:"file_enabled"`
}

type MetricsConfig struct {
	// Textfile is a Prometheus textfile-collector path. Empty disables it.
	Textfile string `yaml:"textfile"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// ExportsPath is the directory holding every export run.
func (c *Config) ExportsPath() (string, error) {
	root, err := ExpandPath(c.Output.Root)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, c.Output.ExportsDir), nil
}

// LogPath is the directory for per-run log files. A relative logging.dir is
// resolved against output.root.
func (c *Config) LogPath() (string, error) {
	dir, err := ExpandPath(c.Logging.Dir)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	root, err := ExpandPath(c.Output.Root)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, dir), nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
