// Package configservice locates the envedit settings for the current
// project and loads them into a typed config.Config.
package configservice

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"envedit/internal/config"
	"envedit/internal/config/yamlstore"
)

// ResolvePaths resolves the project root and settings locations.
// Discovery order: explicit path > ENVEDIT_DIR env var > walk up from CWD
// (stopping at the git root) looking for .envedit/ > the CWD itself.
// A missing .envedit directory is not an error; defaults apply.
func ResolvePaths(explicit string) (config.Paths, error) {
	if explicit != "" {
		return fromBase(explicit)
	}
	if envDir := os.Getenv(config.EnvDir); envDir != "" {
		return fromBase(envDir)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return config.Paths{}, fmt.Errorf("cannot get current directory: %w", err)
	}

	root, found, err := findConfigUpward(cwd)
	if err != nil {
		return config.Paths{}, err
	}
	if !found {
		root = cwd
	}
	return config.PathsFromRoot(root), nil
}

// fromBase accepts either a project directory or its .envedit directory.
func fromBase(path string) (config.Paths, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return config.Paths{}, fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return config.Paths{}, fmt.Errorf("cannot access project directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return config.Paths{}, fmt.Errorf("project path is not a directory: %s", abs)
	}
	if filepath.Base(abs) == config.DirName {
		abs = filepath.Dir(abs)
	}
	return config.PathsFromRoot(abs), nil
}

// findConfigUpward walks from start toward the filesystem root looking for
// a .envedit directory. It stops at the git repository root (if inside a
// git repo) to avoid escaping the repo boundary.
func findConfigUpward(start string) (string, bool, error) {
	gitRoot := FindGitRoot(start)

	dir := start
	for {
		candidate := filepath.Join(dir, config.DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return dir, true, nil
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("checking %s: %w", candidate, err)
		}

		// Stop at git root boundary
		if gitRoot != "" && dir == gitRoot {
			return "", false, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// FindGitRoot returns the git repository root for the given directory.
// Returns "" if not in a git repo.
func FindGitRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			// .git can be a directory (normal repo) or a file (worktree)
			if info.IsDir() || info.Mode().IsRegular() {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load opens the settings store at paths, applies environment overrides,
// validates it and resolves the typed configuration. Defaults are applied
// in memory only.
func Load(paths config.Paths) (*yamlstore.YAMLStore, config.Config, error) {
	store, err := yamlstore.New(paths.ConfigFile)
	if err != nil {
		return nil, config.Config{}, err
	}
	config.ApplyEnvOverrides(store)
	if err := config.Validate(store); err != nil {
		return nil, config.Config{}, err
	}
	cfg, err := config.Resolve(store, paths.Root)
	if err != nil {
		return nil, config.Config{}, err
	}
	return store, cfg, nil
}

// Init writes a settings file with default values, keeping any values
// already present, and creates the backup directory.
func Init(paths config.Paths) (config.Config, error) {
	store, err := yamlstore.New(paths.ConfigFile)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyDefaults(store); err != nil {
		return config.Config{}, fmt.Errorf("writing defaults: %w", err)
	}
	cfg, err := config.Resolve(store, paths.Root)
	if err != nil {
		return config.Config{}, err
	}
	if err := os.MkdirAll(cfg.Paths.BackupDir, 0755); err != nil {
		return config.Config{}, fmt.Errorf("creating backup directory: %w", err)
	}
	return cfg, nil
}
