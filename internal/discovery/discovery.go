// Package discovery finds Chrome history databases of every browser profile
// under a base directory and copies them aside, since a running browser keeps
// the live files locked.
package discovery

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/runnerr0/chromexport/internal/apperr"
	"github.com/runnerr0/chromexport/internal/logging"
)

const (
	// DefaultHistoryFile is the file name Chrome gives each profile's history.
	DefaultHistoryFile = "History"
	// AllProfiles selects every discovered profile.
	AllProfiles = "*"

	copySep = "-"
)

// Profile is a browser profile owning a history database.
type Profile struct {
	// Name is the directory name lower-cased with spaces removed, e.g.
	// "profile1" for "Profile 1".
	Name string
	Dir  string
	// Source is the live database file.
	Source string
	// Path is the file to read: the scratch copy once copied.
	Path string
	Size int64
}

// ProfileName normalises a profile directory name.
func ProfileName(dir string) string {
	return strings.ReplaceAll(strings.ToLower(dir), " ", "")
}

// ProfileFromFile names the profile of a database given directly by path:
// a scratch copy "History-profile1" yields "profile1", any other file its
// normalised base name.
func ProfileFromFile(path string) string {
	name := ProfileName(filepath.Base(path))
	if i := strings.Index(name, copySep); i >= 0 && i < len(name)-1 {
		return name[i+len(copySep):]
	}
	return name
}

// Discoverer searches BaseDir for history databases.
type Discoverer struct {
	BaseDir  string
	FileName string
	// Exclude lists profile names skipped when all profiles are selected.
	Exclude []string
	Log     logrus.FieldLogger
}

func (d *Discoverer) fileName() string {
	if d.FileName == "" {
		return DefaultHistoryFile
	}
	return d.FileName
}

func (d *Discoverer) logger() logrus.FieldLogger {
	if d.Log != nil {
		return d.Log
	}
	return logging.Discard()
}

// List returns every profile with a history database under BaseDir, in path
// order, without copying anything.
func (d *Discoverer) List() ([]Profile, error) {
	name := d.fileName()
	log := d.logger()

	info, err := os.Stat(d.BaseDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: search directory %s does not exist", apperr.ErrNotFound, d.BaseDir)
	}

	var profiles []Profile
	seen := map[string]string{}
	err = filepath.WalkDir(d.BaseDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			log.WithError(err).Warnf("Skipping %s", path)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() || entry.Name() != name {
			return nil
		}

		dir := filepath.Base(filepath.Dir(path))
		p := Profile{Name: ProfileName(dir), Dir: dir, Source: path, Path: path}
		if fi, err := entry.Info(); err == nil {
			p.Size = fi.Size()
		}
		if prev, dup := seen[p.Name]; dup {
			log.Warnf("Profile %q found twice, keeping %s and ignoring %s", p.Name, prev, path)
			return nil
		}
		seen[p.Name] = path
		profiles = append(profiles, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search %s: %w", apperr.ErrIO, d.BaseDir, err)
	}

	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: cannot find any Chrome history database (%s) under directory: %s",
			apperr.ErrNotFound, name, d.BaseDir)
	}

	paths := make([]string, len(profiles))
	for i, p := range profiles {
		paths[i] = p.Source
	}
	log.Infof("Found DB files:\n%s", strings.Join(paths, "\n"))

	return profiles, nil
}

// Select returns the profiles matching profile, or every non-excluded profile
// for AllProfiles.
func (d *Discoverer) Select(all []Profile, profile string) ([]Profile, error) {
	if profile == "" || profile == AllProfiles {
		excluded := map[string]bool{}
		for _, e := range d.Exclude {
			excluded[ProfileName(e)] = true
		}
		var out []Profile
		for _, p := range all {
			if excluded[p.Name] {
				d.logger().Infof("Skipping excluded profile %s", p.Name)
				continue
			}
			out = append(out, p)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: every discovered profile is excluded", apperr.ErrNotFound)
		}
		return out, nil
	}

	want := ProfileName(profile)
	for _, p := range all {
		if p.Name == want {
			return []Profile{p}, nil
		}
	}

	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
	}
	return nil, fmt.Errorf("%w: no Chrome history database found for profile: %s. Available profiles: %s",
		apperr.ErrNotFound, profile, strings.Join(names, ", "))
}

// Discover finds the databases selected by profile and copies each one into a
// fresh scratch directory. The caller must Close the returned Session.
//
// A profile whose copy fails is recorded in Session.Failed and skipped; the
// call fails only when no database could be copied.
func (d *Discoverer) Discover(profile string) (*Session, error) {
	all, err := d.List()
	if err != nil {
		return nil, err
	}
	selected, err := d.Select(all, profile)
	if err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp("", "chromexport-db-")
	if err != nil {
		return nil, fmt.Errorf("%w: create scratch directory: %w", apperr.ErrIO, err)
	}

	s := &Session{Dir: scratch, Failed: map[string]error{}}
	log := d.logger()

	for _, p := range selected {
		dst := filepath.Join(scratch, d.fileName()+copySep+p.Name)
		log.Infof("Copying Chrome history database.\n %s -> %s", p.Source, dst)

		n, err := copyFile(p.Source, dst)
		if err != nil {
			log.WithError(err).WithField("profile", p.Name).Error("Cannot copy history database, skipping profile")
			s.Failed[p.Name] = err
			continue
		}
		p.Path = dst
		p.Size = n
		s.Profiles = append(s.Profiles, p)
	}

	if len(s.Profiles) == 0 {
		s.Close()
		return nil, fmt.Errorf("%w: no history database could be copied: %w",
			apperr.ErrIO, errors.Join(failures(s.Failed)...))
	}

	for _, p := range s.Profiles {
		log.Debugf("Copied %s: %d bytes", p.Path, p.Size)
	}
	return s, nil
}

func failures(m map[string]error) []error {
	out := make([]error, 0, len(m))
	for name, err := range m {
		out = append(out, fmt.Errorf("%s: %w", name, err))
	}
	return out
}

// Session owns the scratch copies made by Discover.
type Session struct {
	Dir      string
	Profiles []Profile
	Failed   map[string]error
}

// Close removes the scratch directory and every copy in it.
func (s *Session) Close() error {
	if s == nil || s.Dir == "" {
		return nil
	}
	return os.RemoveAll(s.Dir)
}

// copyFile copies src to dst without moving or locking src.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, err
	}
	return n, out.Close()
}
