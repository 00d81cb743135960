// Package store persists the single save document.
//
// File writes follow a temp-file, backup-rename, final-rename sequence so that
// at every crash point one of the old document, the backup, or the new
// document is a complete file. Reads fall back to the backup when the primary
// does not parse.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/funfair/internal/jsonx"
	"github.com/mesh-intelligence/funfair/internal/paths"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

const tempPattern = ".save-*.tmp"

var errInvalidDocument = errors.New("not a JSON object")

// File is a SaveStore backed by save.json and save.json.backup in one directory.
type File struct {
	dir    string
	log    zerolog.Logger
	rename func(oldpath, newpath string) error
}

// Option configures a File store.
type Option func(*File)

// WithLogger sets the logger used for recovery and cleanup messages.
func WithLogger(l zerolog.Logger) Option {
	return func(f *File) { f.log = l }
}

// NewFile returns a store rooted at dir. The directory is created on the
// first write.
func NewFile(dir string, opts ...Option) *File {
	f := &File{
		dir:    dir,
		log:    zerolog.Nop(),
		rename: os.Rename,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Dir returns the directory holding the save files.
func (f *File) Dir() string { return f.dir }

// Path returns the primary save file path.
func (f *File) Path() string { return paths.SaveFile(f.dir) }

// BackupPath returns the backup save file path.
func (f *File) BackupPath() string { return paths.BackupFile(f.dir) }

// Read returns the primary document, or the backup when the primary is
// missing or does not parse. A backup read does not promote the backup; the
// next successful Write does.
func (f *File) Read() (types.Raw, error) {
	primary, perr := readDocument(f.Path())
	if perr == nil {
		return types.Raw{Data: primary, Origin: types.OriginPrimary}, nil
	}

	backup, berr := readDocument(f.BackupPath())
	if berr == nil {
		f.log.Warn().Err(perr).Str("path", f.BackupPath()).Msg("primary save unreadable, recovered from backup")
		return types.Raw{Data: backup, Origin: types.OriginBackup}, nil
	}

	if errors.Is(perr, types.ErrNotFound) && errors.Is(berr, types.ErrNotFound) {
		return types.Raw{}, types.ErrNotFound
	}
	return types.Raw{}, fmt.Errorf("%w: primary: %v; backup: %v", types.ErrCorrupt, perr, berr)
}

// readDocument reads path and checks that it holds one JSON object.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !jsonx.IsObject(data) {
		return nil, fmt.Errorf("parsing %s: %w", path, errInvalidDocument)
	}
	return data, nil
}

// Write replaces the stored document with data.
//
// Sequence: write and fsync a temp file in the save directory, rename a valid
// primary to the backup name, rename the temp file to the primary name. A
// primary that does not parse is left for the final rename to replace, so it
// never displaces a good backup.
func (f *File) Write(data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating save dir: %w", types.ErrIOFailure, err)
	}
	f.removeStaleTemps()

	tmpName, err := writeTemp(f.dir, data)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrIOFailure, err)
	}

	if _, err := readDocument(f.Path()); err == nil {
		if err := f.rename(f.Path(), f.BackupPath()); err != nil {
			os.Remove(tmpName)
			return fmt.Errorf("%w: rotating backup: %w", types.ErrIOFailure, err)
		}
	}

	if err := f.rename(tmpName, f.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming temp file: %w", types.ErrIOFailure, err)
	}
	return nil
}

// writeTemp writes data to a new temp file in dir using the temp-file, fsync
// pattern and returns its name.
func writeTemp(dir string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return tmpName, nil
}

// removeStaleTemps deletes temp files left behind by an interrupted write.
func (f *File) removeStaleTemps() {
	matches, err := filepath.Glob(filepath.Join(f.dir, tempPattern))
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err == nil {
			f.log.Debug().Str("path", m).Msg("removed stale temp save")
		}
	}
}

// Reset removes the primary and backup files. Missing files are not an error.
func (f *File) Reset() error {
	for _, p := range []string{f.Path(), f.BackupPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: removing %s: %w", types.ErrIOFailure, p, err)
		}
	}
	return nil
}
