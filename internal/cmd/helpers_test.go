package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"envedit/internal/config"
	"envedit/internal/dotenv"
	"envedit/internal/editor"

	"gopkg.in/yaml.v3"
)

// setupTestApp creates an App over a temporary project whose .env file
// holds content.
func setupTestApp(t *testing.T, content string) (*App, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	paths := config.PathsFromRoot(root)
	cfg := config.Config{
		Paths: config.PathsConfig{
			EnvFile:   filepath.Join(root, ".env"),
			BackupDir: filepath.Join(paths.ConfigDir, "backups"),
		},
		Log: config.LogConfig{Level: "WARNING"},
	}
	if err := os.WriteFile(cfg.Paths.EnvFile, []byte(content), 0644); err != nil {
		t.Fatalf("writing .env: %v", err)
	}
	ed, err := editor.New(cfg)
	if err != nil {
		t.Fatalf("editor.New: %v", err)
	}

	var out bytes.Buffer
	app := &App{
		Editor: ed,
		Config: cfg,
		Paths:  paths,
		Out:    &out,
		Err:    &bytes.Buffer{},
	}
	return app, &out
}

func readEnv(t *testing.T, app *App) string {
	t.Helper()
	data, err := os.ReadFile(app.Editor.EnvPath())
	if err != nil {
		t.Fatalf("reading .env: %v", err)
	}
	return string(data)
}

func lines(ls ...string) string {
	return strings.Join(ls, dotenv.LineEnding)
}

// writeSettings writes pairs straight to a settings file, bypassing the
// store's validation so tests can set up broken configurations.
func writeSettings(t *testing.T, path string, pairs map[string]string) {
	t.Helper()
	raw, err := yaml.Marshal(pairs)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}
}
