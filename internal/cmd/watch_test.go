package cmd

import (
	"context"
	"testing"
	"time"
)

func TestWatch_StopsOnCancel(t *testing.T) {
	app, _ := setupTestApp(t, sample)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	cmd := newWatchCmd(NewTestProvider(app))
	cmd.SetArgs([]string{"--debounce", "10ms"})
	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("watch returned error: %v", err)
	}
}

func TestPrintChanges(t *testing.T) {
	app, out := setupTestApp(t, sample)

	printChanges(app, nil)
	if out.String() != "No key changes\n" {
		t.Errorf("empty changes output = %q", out.String())
	}
}
