package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/runnerr0/chromexport/internal/apperr"
	"github.com/runnerr0/chromexport/internal/history"
	"github.com/runnerr0/chromexport/internal/logging"
)

// DefaultDirPrefix prefixes timestamped export directory names.
const DefaultDirPrefix = "exported-chrome-db"

// NewExportDir creates <root>/<prefix>-YYYYMMDD_HHMMSS and returns its path.
func NewExportDir(root, prefix string, now time.Time) (string, error) {
	if prefix == "" {
		prefix = DefaultDirPrefix
	}
	dir := filepath.Join(root, fmt.Sprintf("%s-%s", prefix, now.Format("20060102_150405")))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create export directory: %w", apperr.ErrIO, err)
	}
	return dir, nil
}

// FilenamePostfix encodes a narrowed date range into export file names, e.g.
// "__20240101_20240131". The default range yields "".
func FilenamePostfix(r history.DateRange) string {
	if r.IsDefault() {
		return ""
	}
	return fmt.Sprintf("__%s_%s", r.From.Format("20060102"), r.To.Format("20060102"))
}

// Result describes one written export file.
type Result struct {
	Profile string
	Format  Format
	Path    string
	Rows    int
}

// Writer converts entries and writes one file per format into Dir.
type Writer struct {
	Dir       string
	Postfix   string
	Converter *Converter
	Log       logrus.FieldLogger

	// OnWritten, when set, is called after each file is written.
	OnWritten func(Result)
}

// Filename returns the path of profile's export file in format.
func (w *Writer) Filename(profile string, format Format) string {
	return filepath.Join(w.Dir, profile+w.Postfix+"."+format.Extension())
}

// Export writes the files mode calls for. Every format converts the
// unmodified entries afresh.
func (w *Writer) Export(profile string, entries []history.Entry, mode Mode) ([]Result, error) {
	formats := mode.Formats()
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: unknown export mode %q", apperr.ErrConfiguration, mode)
	}

	results := make([]Result, 0, len(formats))
	for _, format := range formats {
		res, err := w.exportFormat(profile, entries, format)
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if w.OnWritten != nil {
			w.OnWritten(res)
		}
	}
	return results, nil
}

func (w *Writer) exportFormat(profile string, entries []history.Entry, format Format) (Result, error) {
	path := w.Filename(profile, format)
	log := w.logger().WithFields(logrus.Fields{"profile": profile, "format": format})

	table, err := w.Converter.Convert(entries, format)
	if err != nil {
		return Result{}, err
	}

	log.Infof("Writing results to file: %s", path)
	f, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: create %s: %w", apperr.ErrIO, path, err)
	}

	if format == FormatHTML {
		err = RenderHTML(f, table, profile)
	} else {
		err = Render(f, table, format)
	}
	if err != nil {
		f.Close()
		return Result{}, fmt.Errorf("%w: write %s: %w", apperr.ErrIO, path, err)
	}
	if err := f.Close(); err != nil {
		return Result{}, fmt.Errorf("%w: close %s: %w", apperr.ErrIO, path, err)
	}

	return Result{Profile: profile, Format: format, Path: path, Rows: len(table.Rows)}, nil
}

func (w *Writer) logger() logrus.FieldLogger {
	if w.Log != nil {
		return w.Log
	}
	return logging.Discard()
}
