package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"envedit/internal/config"
	"envedit/internal/config/yamlstore"
)

func TestInit(t *testing.T) {
	t.Run("creates envedit directory structure", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Chdir(tmpDir)

		var out bytes.Buffer
		provider := &AppProvider{Out: &out}
		cmd := newInitCmd(provider)
		cmd.SetArgs([]string{})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("init command failed: %v", err)
		}

		configPath := filepath.Join(tmpDir, config.DirName, config.FileName)
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			t.Error(".envedit/config.yaml was not created")
		}
		if _, err := os.Stat(filepath.Join(tmpDir, config.DirName, "backups")); os.IsNotExist(err) {
			t.Error(".envedit/backups directory was not created")
		}
		if _, err := os.Stat(filepath.Join(tmpDir, ".env")); os.IsNotExist(err) {
			t.Error(".env was not created")
		}
		if !strings.Contains(out.String(), "Initialized envedit") {
			t.Errorf("unexpected output %q", out.String())
		}
	})

	t.Run("writes default settings", func(t *testing.T) {
		tmpDir := t.TempDir()

		provider := &AppProvider{Out: &bytes.Buffer{}, ProjectPath: tmpDir}
		cmd := newInitCmd(provider)
		cmd.SetArgs([]string{})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("init command failed: %v", err)
		}

		store, err := yamlstore.New(filepath.Join(tmpDir, config.DirName, config.FileName))
		if err != nil {
			t.Fatal(err)
		}
		for k, want := range config.DefaultValues() {
			if got, _ := store.Get(k); got != want {
				t.Errorf("%s = %q, want %q", k, got, want)
			}
		}
	})

	t.Run("keeps existing env file", func(t *testing.T) {
		tmpDir := t.TempDir()
		envPath := filepath.Join(tmpDir, ".env")
		if err := os.WriteFile(envPath, []byte("KEEP=me\n"), 0644); err != nil {
			t.Fatal(err)
		}

		provider := &AppProvider{Out: &bytes.Buffer{}, ProjectPath: tmpDir}
		cmd := newInitCmd(provider)
		cmd.SetArgs([]string{})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("init command failed: %v", err)
		}

		data, err := os.ReadFile(envPath)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "KEEP=me\n" {
			t.Errorf(".env = %q, want it unchanged", data)
		}
	})

	t.Run("fails if already initialized", func(t *testing.T) {
		tmpDir := t.TempDir()

		for i, wantErr := range []bool{false, true} {
			provider := &AppProvider{Out: &bytes.Buffer{}, ProjectPath: tmpDir}
			cmd := newInitCmd(provider)
			cmd.SetArgs([]string{})
			err := cmd.Execute()
			if (err != nil) != wantErr {
				t.Fatalf("init #%d error = %v, wantErr %v", i+1, err, wantErr)
			}
		}
	})

	t.Run("force reinitializes and keeps settings", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, config.DirName, config.FileName)

		store, err := yamlstore.New(configPath)
		if err != nil {
			t.Fatal(err)
		}
		if err := store.Set(config.KeyBackupKeep, "7"); err != nil {
			t.Fatal(err)
		}

		provider := &AppProvider{Out: &bytes.Buffer{}, ProjectPath: tmpDir}
		cmd := newInitCmd(provider)
		cmd.SetArgs([]string{"--force"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("init --force failed: %v", err)
		}

		store, err = yamlstore.New(configPath)
		if err != nil {
			t.Fatal(err)
		}
		if got, _ := store.Get(config.KeyBackupKeep); got != "7" {
			t.Errorf("backup.keep = %q, want existing value 7", got)
		}
	})
}
