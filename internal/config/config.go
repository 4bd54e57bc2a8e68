// Package config handles envedit settings: where the .env file and its
// backups live, backup retention and log verbosity.
package config

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Setting keys.
const (
	KeyEnvFile       = "paths.env_file"
	KeyBackupDir     = "paths.backup_dir"
	KeyBackupKeep    = "backup.keep"
	KeyBackupOnWrite = "backup.on_write"
	KeyLogLevel      = "log.level"
)

// Config is the resolved, typed view of the settings store.
type Config struct {
	Paths  PathsConfig  `json:"paths" yaml:"paths"`
	Backup BackupConfig `json:"backup" yaml:"backup"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

type PathsConfig struct {
	EnvFile   string `json:"env_file" yaml:"env_file"`
	BackupDir string `json:"backup_dir" yaml:"backup_dir"`
}

type BackupConfig struct {
	Keep    int  `json:"keep" yaml:"keep"`
	OnWrite bool `json:"on_write" yaml:"on_write"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// Resolve builds a Config from s. Relative paths are taken relative to
// root, the project directory holding the .envedit directory.
func Resolve(s Store, root string) (Config, error) {
	get := func(key string) string {
		if v, ok := s.Get(key); ok && v != "" {
			return v
		}
		return DefaultValues()[key]
	}

	keep, err := strconv.Atoi(get(KeyBackupKeep))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyBackupKeep, err)
	}
	onWrite, err := strconv.ParseBool(get(KeyBackupOnWrite))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyBackupOnWrite, err)
	}

	return Config{
		Paths: PathsConfig{
			EnvFile:   absPath(root, get(KeyEnvFile)),
			BackupDir: absPath(root, get(KeyBackupDir)),
		},
		Backup: BackupConfig{
			Keep:    keep,
			OnWrite: onWrite,
		},
		Log: LogConfig{
			Level: get(KeyLogLevel),
		},
	}, nil
}

func absPath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
