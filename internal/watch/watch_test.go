package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"envedit/internal/dotenv"
	"envedit/internal/envfile"
)

func waitChanges(t *testing.T, ch <-chan []dotenv.Change) []dotenv.Change {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for changes")
		return nil
	}
}

func startWatcher(t *testing.T, path string) <-chan []dotenv.Change {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan []dotenv.Change, 4)
	done := make(chan error, 1)

	w := New(path)
	w.Debounce = 20 * time.Millisecond
	go func() { done <- w.Run(ctx, out) }()

	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
	})
	// Give the watcher time to register before the test writes.
	time.Sleep(100 * time.Millisecond)
	return out
}

func TestWatch_ReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("A=1\nB=2"), 0644); err != nil {
		t.Fatal(err)
	}
	out := startWatcher(t, path)

	if err := envfile.New(path).Write(context.Background(), []byte("A=1\nB=3\nC=4")); err != nil {
		t.Fatal(err)
	}

	changes := waitChanges(t, out)
	if len(changes) != 2 {
		t.Fatalf("changes = %+v, want 2", changes)
	}
	if changes[0].Key != "B" || changes[0].Kind != dotenv.Changed || changes[0].New != "3" {
		t.Errorf("changes[0] = %+v", changes[0])
	}
	if changes[1].Key != "C" || changes[1].Kind != dotenv.Added {
		t.Errorf("changes[1] = %+v", changes[1])
	}
}

func TestWatch_FileCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	out := startWatcher(t, path)

	if err := os.WriteFile(path, []byte("NEW=1"), 0644); err != nil {
		t.Fatal(err)
	}

	changes := waitChanges(t, out)
	if len(changes) != 1 || changes[0].Kind != dotenv.Added || changes[0].Key != "NEW" {
		t.Errorf("changes = %+v", changes)
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("A=1"), 0644); err != nil {
		t.Fatal(err)
	}
	out := startWatcher(t, path)

	if err := os.WriteFile(filepath.Join(dir, "other.env"), []byte("B=2"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-out:
		t.Errorf("unexpected changes %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}
