// Package envfile reads and writes a .env file on disk for the dotenv
// engine. Writers are serialized with an exclusive lock on a sibling
// ".lock" file and every write replaces the file atomically, so readers
// never observe a partially written file.
package envfile

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"envedit/internal/dotenv"

	"github.com/gofrs/flock"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("envedit.envfile")

var (
	// ErrFileNotExists is returned when the file to read does not exist.
	ErrFileNotExists = errors.New("file does not exist")

	// ErrWriteFailed wraps any failure to persist new content.
	ErrWriteFailed = errors.New("write failed")
)

// lockRetry is how often a blocked writer polls for the lock.
const lockRetry = 20 * time.Millisecond

// File is a .env file at a fixed path.
type File struct {
	path string

	// BeforeWrite, if set, runs under the lock before new content is
	// written. An error aborts the write.
	BeforeWrite func(ctx context.Context) error
}

// New returns a File for path.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Exists reports whether the file is present.
func (f *File) Exists() bool {
	info, err := os.Stat(f.path)
	return err == nil && !info.IsDir()
}

// ReadRaw returns the file content.
func (f *File) ReadRaw(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", f.path, ErrFileNotExists)
		}
		return "", fmt.Errorf("reading %s: %w", f.path, err)
	}
	return string(data), nil
}

// Read parses the file into entries.
func (f *File) Read(ctx context.Context) (dotenv.Entries, error) {
	raw, err := f.ReadRaw(ctx)
	if err != nil {
		return nil, err
	}
	return dotenv.Parse(raw), nil
}

// Update runs a locked read-modify-write cycle. fn receives the current
// entries and may change them; if fn returns an error nothing is written
// and the error is returned as is.
func (f *File) Update(ctx context.Context, fn func(es *dotenv.Entries) error) error {
	return f.withLock(ctx, func() error {
		es, err := f.Read(ctx)
		if err != nil {
			return err
		}
		if err := fn(&es); err != nil {
			return err
		}
		return f.write(ctx, []byte(dotenv.Serialize(es)))
	})
}

// Write replaces the file content under the lock. The file is created if
// it does not exist.
func (f *File) Write(ctx context.Context, content []byte) error {
	return f.withLock(ctx, func() error {
		return f.write(ctx, content)
	})
}

func (f *File) write(ctx context.Context, content []byte) error {
	if f.BeforeWrite != nil && f.Exists() {
		if err := f.BeforeWrite(ctx); err != nil {
			return err
		}
	}
	if err := AtomicWrite(f.path, content); err != nil {
		return fmt.Errorf("%s: %w: %v", f.path, ErrWriteFailed, err)
	}
	logger.Debugf("wrote %d bytes to %s", len(content), f.path)
	return nil
}

// withLock holds the lock for f while fn runs.
func (f *File) withLock(ctx context.Context, fn func() error) error {
	return WithLock(ctx, f.path, fn)
}

// WithLock holds an exclusive lock on path+".lock" while fn runs, creating
// the parent directory first. Waiting for the lock stops when ctx is done.
func WithLock(ctx context.Context, path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("acquiring lock on %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("acquiring lock on %s: %w", path, ctx.Err())
	}
	defer lock.Unlock()

	return fn()
}

// AtomicWrite writes data to a file atomically via a temporary file and rename.
func AtomicWrite(path string, data []byte) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return fmt.Errorf("generating random suffix: %w", err)
	}
	tmp := path + ".tmp." + hex.EncodeToString(randBytes)

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(tmp, data, mode); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best effort cleanup
		return err
	}
	return nil
}
