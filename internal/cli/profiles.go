package cli

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/runnerr0/chromexport/internal/config"
	"github.com/runnerr0/chromexport/internal/discovery"
)

// profilesJSON is the JSON output structure for the profiles command.
type profilesJSON struct {
	BaseDir  string        `json:"base_dir"`
	Profiles []profileJSON `json:"profiles"`
}

type profileJSON struct {
	Name      string `json:"name"`
	Dir       string `json:"dir"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Excluded  bool   `json:"excluded"`
}

// Execute implements the go-flags Commander interface for ProfilesCommand.
func (c *ProfilesCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log, err := newLogger(c.globals, cfg, false, time.Now())
	if err != nil {
		return err
	}
	defer log.Close()

	return c.executeWithConfig(cfg, log.Logger)
}

// executeWithConfig lists profiles using a resolved config (for testing).
func (c *ProfilesCommand) executeWithConfig(cfg *config.Config, log logrus.FieldLogger) error {
	baseDir := c.SearchBaseDir
	if baseDir == "" {
		baseDir = cfg.Chrome.SearchBaseDir
	}
	baseDir, err := config.ExpandPath(baseDir)
	if err != nil {
		return err
	}

	d := &discovery.Discoverer{BaseDir: baseDir, FileName: cfg.Chrome.HistoryFile, Log: log}
	profiles, err := d.List()
	if err != nil {
		return err
	}

	excluded := map[string]bool{}
	for _, e := range cfg.Chrome.ExcludeProfiles {
		excluded[discovery.ProfileName(e)] = true
	}

	out := profilesJSON{BaseDir: baseDir, Profiles: []profileJSON{}}
	for _, p := range profiles {
		if excluded[p.Name] && !c.All {
			continue
		}
		out.Profiles = append(out.Profiles, profileJSON{
			Name:      p.Name,
			Dir:       p.Dir,
			Path:      p.Source,
			SizeBytes: p.Size,
			Excluded:  excluded[p.Name],
		})
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(out)
	}
	return c.printHuman(out)
}

func (c *ProfilesCommand) printHuman(out profilesJSON) error {
	fmt.Println("Chrome Profiles")
	fmt.Println("===============")
	fmt.Printf("Search dir:    %s\n", out.BaseDir)
	fmt.Println()

	if len(out.Profiles) == 0 {
		fmt.Println("No profiles to export (all are excluded, see --all)")
		return nil
	}
	for _, p := range out.Profiles {
		line := fmt.Sprintf("  %-16s %-20s %10s", p.Name, p.Dir, formatBytes(p.SizeBytes))
		if p.Excluded {
			line += "  (excluded)"
		}
		fmt.Println(line)
	}
	return nil
}
