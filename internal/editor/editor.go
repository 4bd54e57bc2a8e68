// Package editor is the entry point for reading and changing a .env file.
//
// An Editor ties together the file on disk, the dotenv entry model and the
// backup manager. Every key operation is one locked read-modify-write cycle
// on the file; no parsed state is kept between calls.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"envedit/internal/backup"
	"envedit/internal/config"
	"envedit/internal/dotenv"
	"envedit/internal/envfile"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("envedit.editor")

// ErrGroupNotFound is returned when Add targets a group the file does not have.
var ErrGroupNotFound = errors.New("group not found")

// Editor edits one .env file and manages its backups.
type Editor struct {
	file    *envfile.File
	backups *backup.Manager
}

// New creates an Editor from cfg.
func New(cfg config.Config) (*Editor, error) {
	file := envfile.New(cfg.Paths.EnvFile)
	backups, err := backup.New(backup.Options{
		Dir:  cfg.Paths.BackupDir,
		File: file,
		Keep: cfg.Backup.Keep,
	})
	if err != nil {
		return nil, err
	}

	// Restore and Upload write through file too, so they are covered.
	if cfg.Backup.OnWrite {
		file.BeforeWrite = func(ctx context.Context) error {
			b, err := backups.Create(ctx)
			if err != nil {
				return fmt.Errorf("backing up before write: %w", err)
			}
			logger.Debugf("snapshot %s taken before write", b.Name)
			return nil
		}
	}

	return &Editor{file: file, backups: backups}, nil
}

// EnvPath returns the location of the .env file.
func (e *Editor) EnvPath() string {
	return e.file.Path()
}

// Entries returns the parsed .env file, or the named backup when
// backupName is not empty.
func (e *Editor) Entries(ctx context.Context, backupName string) (dotenv.Entries, error) {
	if backupName == "" {
		return e.file.Read(ctx)
	}
	b, err := e.backups.Get(ctx, backupName)
	if err != nil {
		return nil, err
	}
	return b.Entries, nil
}

// Has reports whether key is set in the .env file.
func (e *Editor) Has(ctx context.Context, key string) (bool, error) {
	es, err := e.file.Read(ctx)
	if err != nil {
		return false, err
	}
	return es.Has(key), nil
}

// Get returns the value of key, or def when the key is missing or empty.
func (e *Editor) Get(ctx context.Context, key string, def dotenv.Value) (dotenv.Value, error) {
	es, err := e.file.Read(ctx)
	if err != nil {
		return dotenv.Value{}, err
	}
	return es.Get(key, def), nil
}

// AddOptions controls where Add places a new key.
type AddOptions struct {
	// Group places the key at the end of an existing group. Zero starts a
	// new group at the end of the file.
	Group int
}

// Add inserts a new key. It fails with dotenv.ErrKeyAlreadyExists when the
// key is present.
func (e *Editor) Add(ctx context.Context, key string, value dotenv.Value, opts AddOptions) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := validateValue(key, value.String()); err != nil {
		return err
	}
	err := e.file.Update(ctx, func(es *dotenv.Entries) error {
		return place(es, key, value, opts)
	})
	if err != nil {
		return err
	}
	logger.Infof("added %s to %s", key, e.file.Path())
	return nil
}

// place applies Add's layout rules to es.
func place(es *dotenv.Entries, key string, value dotenv.Value, opts AddOptions) error {
	if es.Has(key) {
		return fmt.Errorf("key %q: %w", key, dotenv.ErrKeyAlreadyExists)
	}
	// An empty file parses to a single blank line in group 1.
	if len(*es) == 1 && (*es)[0].IsSeparator() {
		*es = nil
		if opts.Group == 1 {
			_, err := es.Add(key, value)
			return err
		}
	}

	if opts.Group > 0 {
		after, ok := es.GroupEnd(opts.Group)
		if !ok {
			return fmt.Errorf("group %d: %w", opts.Group, ErrGroupNotFound)
		}
		es.InsertAfter(after, dotenv.NewEntry(key, value, opts.Group, 0))
		return nil
	}

	// New group: close the current last group with a blank line unless
	// the file already ends in one.
	if last, ok := es.Last(); ok && !last.IsSeparator() {
		*es = append(*es, dotenv.NewSeparator(last.Group(), es.NextIndex()))
	}
	_, err := es.Add(key, value)
	return err
}

// Edit changes the value of an existing key. It fails with
// dotenv.ErrKeyNotFound when the key is missing.
func (e *Editor) Edit(ctx context.Context, key string, value dotenv.Value) error {
	if err := validateValue(key, value.String()); err != nil {
		return err
	}
	err := e.file.Update(ctx, func(es *dotenv.Entries) error {
		return es.Edit(key, value)
	})
	if err != nil {
		return err
	}
	logger.Infof("changed %s in %s", key, e.file.Path())
	return nil
}

// Delete removes a key. It fails with dotenv.ErrKeyNotFound when the key
// is missing.
func (e *Editor) Delete(ctx context.Context, key string) error {
	err := e.file.Update(ctx, func(es *dotenv.Entries) error {
		return es.Delete(key)
	})
	if err != nil {
		return err
	}
	logger.Infof("deleted %s from %s", key, e.file.Path())
	return nil
}

// Backups returns all backups, newest first.
func (e *Editor) Backups(ctx context.Context) ([]backup.Backup, error) {
	return e.backups.List(ctx)
}

// Backup returns a single backup.
func (e *Editor) Backup(ctx context.Context, name string) (backup.Backup, error) {
	return e.backups.Get(ctx, name)
}

// BackupCurrent snapshots the .env file.
func (e *Editor) BackupCurrent(ctx context.Context) (backup.Backup, error) {
	return e.backups.Create(ctx)
}

// Restore replaces the .env file with a backup.
func (e *Editor) Restore(ctx context.Context, name string) error {
	return e.backups.Restore(ctx, name)
}

// DeleteBackup removes a backup.
func (e *Editor) DeleteBackup(ctx context.Context, name string) error {
	return e.backups.Delete(ctx, name)
}

// Upload stores r as a new backup, or as the .env file itself when
// replaceCurrent is set.
func (e *Editor) Upload(ctx context.Context, r io.Reader, replaceCurrent bool) (string, error) {
	return e.backups.Upload(ctx, r, replaceCurrent)
}

// FilePath returns the path of a backup, or of the .env file when name is
// empty.
func (e *Editor) FilePath(name string) (string, error) {
	return e.backups.Path(name)
}
