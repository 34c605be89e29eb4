package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/runnerr0/chromexport/internal/apperr"
	"github.com/runnerr0/chromexport/internal/config"
	"github.com/runnerr0/chromexport/internal/discovery"
	"github.com/runnerr0/chromexport/internal/export"
	"github.com/runnerr0/chromexport/internal/history"
	"github.com/runnerr0/chromexport/internal/metrics"
)

// exportOptions are the flag and config values of one run, validated.
type exportOptions struct {
	mode       export.Mode
	dateRange  history.DateRange
	urlFilter  string
	orderBy    export.Field
	order      export.Ordering
	truncate   export.TruncateConfig
	rowNumbers bool
	profile    string
}

type exportedFile struct {
	Profile string `json:"profile"`
	Format  string `json:"format"`
	Path    string `json:"path"`
	Rows    int    `json:"rows"`
}

// exportSummary is the result of an export run, also its JSON output.
type exportSummary struct {
	RunID   string            `json:"run_id"`
	Dir     string            `json:"export_dir"`
	Files   []exportedFile    `json:"files"`
	Skipped map[string]string `json:"skipped,omitempty"`
}

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	log, err := newLogger(c.globals, cfg, true, c.clock())
	if err != nil {
		return err
	}
	defer log.Close()

	return c.executeWithConfig(context.Background(), cfg, log.Logger)
}

func (c *ExportCommand) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *ExportCommand) progressWriter() io.Writer {
	if c.stderr != nil {
		return c.stderr
	}
	return os.Stderr
}

// options merges flags over cfg and rejects inconsistent combinations.
func (c *ExportCommand) options(cfg *config.Config) (*exportOptions, error) {
	profile := c.Profile
	if profile == "" {
		profile = discovery.AllProfiles
	}
	if len(c.DBFiles) == 0 && !c.SearchDBFiles {
		return nil, fmt.Errorf("%w: no input, use --db-file or --search-db-files", apperr.ErrConfiguration)
	}
	if profile != discovery.AllProfiles && !c.SearchDBFiles {
		return nil, fmt.Errorf("%w: --search-db-files must be specified when --profile is used", apperr.ErrConfiguration)
	}

	modeName := c.Mode
	if modeName == "" {
		modeName = cfg.Export.Mode
	}
	mode, err := export.ParseMode(modeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrConfiguration, err)
	}

	dateRange, err := parseDateRange(c.FromDate, c.ToDate)
	if err != nil {
		return nil, err
	}

	orderByName := c.OrderBy
	if orderByName == "" {
		orderByName = cfg.Export.OrderBy
	}
	orderBy, err := export.ParseField(orderByName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrConfiguration, err)
	}

	order := export.Ascending
	if !c.Ascending {
		order, err = export.ParseOrdering(cfg.Export.Ordering)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperr.ErrConfiguration, err)
		}
	}

	return &exportOptions{
		mode:       mode,
		dateRange:  dateRange,
		urlFilter:  c.URLFilter,
		orderBy:    orderBy,
		order:      order,
		truncate:   export.NewTruncateConfig(cfg.Export.Truncate && !c.NoTruncate, cfg.Export.DateOnly || c.DateOnly),
		rowNumbers: cfg.Export.RowNumbers && !c.NoRowNumbers,
		profile:    profile,
	}, nil
}

// executeWithConfig runs the export against a resolved config and logger (for testing).
func (c *ExportCommand) executeWithConfig(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	opts, err := c.options(cfg)
	if err != nil {
		return err
	}

	start := c.clock()
	summary := &exportSummary{RunID: uuid.New().String(), Skipped: map[string]string{}}
	runLog := log.WithField("run", summary.RunID)
	rec := metrics.New()

	err = c.run(ctx, cfg, opts, runLog, rec, summary, start)
	rec.Finished(start, c.clock(), err == nil)
	if cfg.Metrics.Textfile != "" {
		if werr := writeMetrics(rec, cfg.Metrics.Textfile); werr != nil {
			runLog.WithError(werr).Warn("Cannot write metrics textfile")
		}
	}
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(summary)
	}
	printExportSummary(summary)
	return nil
}

func (c *ExportCommand) run(ctx context.Context, cfg *config.Config, opts *exportOptions, log logrus.FieldLogger,
	rec *metrics.Recorder, summary *exportSummary, start time.Time) error {
	inputs, session, err := c.collectInputs(cfg, opts, log)
	if err != nil {
		return err
	}
	defer session.Close()
	if session != nil {
		for name, ferr := range session.Failed {
			summary.Skipped[name] = ferr.Error()
			rec.ProfileFailed("copy")
		}
	}

	reader := history.NewSQLiteReader(log)

	if c.ListDBTables {
		for _, in := range inputs {
			if err := logTables(ctx, reader, in.Path, log); err != nil {
				return err
			}
		}
	}

	root := c.OutputDir
	if root == "" {
		if root, err = cfg.ExportsPath(); err != nil {
			return fmt.Errorf("%w: %w", apperr.ErrConfiguration, err)
		}
	}
	dir, err := export.NewExportDir(root, cfg.Output.DirPrefix, start)
	if err != nil {
		return err
	}
	summary.Dir = dir

	bar := progressbar.NewOptions(len(inputs)*len(opts.mode.Formats()),
		progressbar.OptionSetWriter(c.progressWriter()),
		progressbar.OptionSetDescription("Exporting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Finish()

	for _, in := range inputs {
		plog := log.WithField("profile", in.Name)

		entries, err := reader.ReadEntries(ctx, in.Path)
		if err != nil {
			return err
		}
		rec.EntriesRead(in.Name, len(entries))

		filter := history.Filter{Range: opts.dateRange, URLContains: opts.urlFilter, Log: plog}
		filtered := filter.Apply(entries)
		rec.EntriesFiltered(in.Name, len(filtered))

		stats := export.NewRowStats(export.AllFields(), export.FieldURL)
		w := &export.Writer{
			Dir:     dir,
			Postfix: export.FilenamePostfix(opts.dateRange),
			Converter: &export.Converter{
				Fields:     export.AllFields(),
				OrderBy:    opts.orderBy,
				Order:      opts.order,
				Truncate:   opts.truncate,
				RowNumbers: opts.rowNumbers,
				Observer:   stats,
				Log:        plog,
			},
			Log: plog,
			OnWritten: func(r export.Result) {
				_ = bar.Add(1)
				rec.FileWritten(r.Profile, string(r.Format), r.Rows)
				summary.Files = append(summary.Files, exportedFile{
					Profile: r.Profile, Format: string(r.Format), Path: r.Path, Rows: r.Rows,
				})
			},
		}
		if _, err := w.Export(in.Name, filtered, opts.mode); err != nil {
			return err
		}

		stats.Log(plog)
		rec.UniqueURLs(in.Name, stats.UniqueCount(export.FieldURL))
	}

	return nil
}

// collectInputs returns the databases to export: every --db-file first, then
// the scratch copies of discovered profiles. The returned session is nil
// unless discovery ran.
func (c *ExportCommand) collectInputs(cfg *config.Config, opts *exportOptions, log logrus.FieldLogger) ([]discovery.Profile, *discovery.Session, error) {
	var inputs []discovery.Profile
	used := map[string]bool{}
	add := func(p discovery.Profile) {
		name := p.Name
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", p.Name, n)
		}
		used[name] = true
		p.Name = name
		inputs = append(inputs, p)
	}

	for _, f := range c.DBFiles {
		info, err := os.Stat(f)
		if err != nil || info.IsDir() {
			return nil, nil, fmt.Errorf("%w: database file %s does not exist", apperr.ErrNotFound, f)
		}
		add(discovery.Profile{
			Name:   discovery.ProfileFromFile(f),
			Dir:    filepath.Base(filepath.Dir(f)),
			Source: f,
			Path:   f,
			Size:   info.Size(),
		})
	}

	if !c.SearchDBFiles {
		return inputs, nil, nil
	}

	baseDir := c.SearchBaseDir
	if baseDir == "" {
		baseDir = cfg.Chrome.SearchBaseDir
	}
	baseDir, err := config.ExpandPath(baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", apperr.ErrConfiguration, err)
	}

	d := &discovery.Discoverer{
		BaseDir:  baseDir,
		FileName: cfg.Chrome.HistoryFile,
		Exclude:  cfg.Chrome.ExcludeProfiles,
		Log:      log,
	}
	session, err := d.Discover(opts.profile)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range session.Profiles {
		add(p)
	}
	return inputs, session, nil
}

func writeMetrics(rec *metrics.Recorder, path string) error {
	path, err := config.ExpandPath(path)
	if err != nil {
		return err
	}
	return rec.WriteTextfile(path)
}

func printExportSummary(s *exportSummary) {
	fmt.Printf("Export run %s\n", s.RunID)
	fmt.Printf("Directory:  %s\n", s.Dir)
	fmt.Println()
	for _, f := range s.Files {
		fmt.Printf("  %-16s %-5s %6d rows  %s\n", f.Profile, f.Format, f.Rows, filepath.Base(f.Path))
	}
	if len(s.Skipped) > 0 {
		fmt.Println()
		fmt.Println("Skipped profiles:")
		for name, reason := range s.Skipped {
			fmt.Printf("  %-16s %s\n", name, reason)
		}
	}
}
