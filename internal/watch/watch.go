// Package watch reports key changes made to a .env file by other programs.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"envedit/internal/dotenv"
	"envedit/internal/envfile"

	"github.com/fsnotify/fsnotify"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("envedit.watch")

// DefaultDebounce collapses bursts of events (tmp file + rename) into one
// re-read.
const DefaultDebounce = 100 * time.Millisecond

// Watcher follows one .env file.
type Watcher struct {
	file     *envfile.File
	Debounce time.Duration
}

// New returns a Watcher for the file at path.
func New(path string) *Watcher {
	return &Watcher{file: envfile.New(path), Debounce: DefaultDebounce}
}

// Run watches the file until ctx is done, sending the key changes of every
// modification to out. The parent directory is watched so files replaced
// by rename are followed. A missing file is treated as empty.
func (w *Watcher) Run(ctx context.Context, out chan<- []dotenv.Change) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.file.Path())
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	current := w.snapshot(ctx)
	name := filepath.Clean(w.file.Path())

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name {
				continue
			}
			logger.Tracef("event %s", ev)
			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warningf("watch error: %v", err)

		case <-fire:
			fire = nil
			next := w.snapshot(ctx)
			changes := dotenv.Diff(current, next)
			current = next
			if len(changes) == 0 {
				continue
			}
			select {
			case out <- changes:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (w *Watcher) snapshot(ctx context.Context) dotenv.Entries {
	es, err := w.file.Read(ctx)
	if err != nil {
		logger.Debugf("reading %s: %v", w.file.Path(), err)
		return nil
	}
	return es
}
