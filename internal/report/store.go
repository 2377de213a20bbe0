package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"eyec/internal/logging"
)

// DefaultFilename is the report name used when no path is configured.
const DefaultFilename = "eyec-report.json"

const (
	DefaultLockTimeout = 30 * time.Second
	lockRetryDelay     = 10 * time.Millisecond
)

var (
	// ErrUnwritable marks a report that could not be persisted.
	ErrUnwritable = errors.New("report not writable")
	// ErrLockTimeout marks a report lock that could not be acquired in time.
	ErrLockTimeout = errors.New("report lock timeout")
)

// Load reads the report at path. A missing, unreadable, or malformed
// document yields an empty report; the error is never surfaced.
func Load(path string) *Report {
	r, err := Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.New("report").Warn("discarding unreadable report", "path", path, "error", err)
		}
		return New()
	}
	return r
}

// Read parses the report at path and returns any error encountered.
func Read(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a single JSON report from rd. Trailing content is an error.
func Decode(rd io.Reader) (*Report, error) {
	dec := json.NewDecoder(rd)
	var r Report
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("decode report: trailing content")
	}
	r.normalize()
	return &r, nil
}

// Save serializes r and replaces the file at path. The document is written
// to a temporary sibling and renamed into place, so readers never observe a
// partial report.
func Save(path string, r *Report) error {
	r.normalize()
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnwritable, path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}

// Store serializes read-modify-write cycles on one report file across
// processes with an exclusive advisory lock on Path+".lock".
type Store struct {
	Path        string
	LockTimeout time.Duration
}

// NewStore returns a store for path with the default lock timeout.
func NewStore(path string) *Store {
	return &Store{Path: path, LockTimeout: DefaultLockTimeout}
}

// LockPath is the advisory lock file guarding Path.
func (s *Store) LockPath() string {
	return s.Path + ".lock"
}

// Update loads the report, applies fn, and saves the result while holding
// the lock. If fn fails nothing is written.
func (s *Store) Update(ctx context.Context, fn func(*Report) error) error {
	timeout := s.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lock := flock.New(s.LockPath())
	ok, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: lock %s: %v", ErrUnwritable, s.LockPath(), err)
	}
	if !ok {
		return fmt.Errorf("%w: %s after %s", ErrLockTimeout, s.LockPath(), timeout)
	}
	defer func() { _ = lock.Unlock() }()

	r := Load(s.Path)
	before := len(r.Stages)
	if err := fn(r); err != nil {
		return err
	}
	if err := Save(s.Path, r); err != nil {
		return err
	}
	logging.New("report").Debug("report updated", "path", s.Path,
		"stages_added", len(r.Stages)-before, "stages_total", len(r.Stages))
	return nil
}
