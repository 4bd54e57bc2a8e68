package config

import "os"

// Environment variable names for envedit configuration.
const (
	EnvDir       = "ENVEDIT_DIR"        // Path to the .envedit directory
	EnvFile      = "ENVEDIT_FILE"       // Override paths.env_file
	EnvBackupDir = "ENVEDIT_BACKUP_DIR" // Override paths.backup_dir
	EnvLogLevel  = "ENVEDIT_LOG"        // Override log.level
)

// ApplyEnvOverrides checks the ENVEDIT_* variables and overrides the
// corresponding settings in memory. These overrides are not persisted to
// the settings file.
func ApplyEnvOverrides(s Store) {
	overrides := map[string]string{
		EnvFile:      KeyEnvFile,
		EnvBackupDir: KeyBackupDir,
		EnvLogLevel:  KeyLogLevel,
	}
	for env, key := range overrides {
		if v := os.Getenv(env); v != "" {
			s.SetInMemory(key, v)
		}
	}
}
