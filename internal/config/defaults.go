package config

// DefaultValues returns the default settings map for the core keys.
func DefaultValues() map[string]string {
	return map[string]string{
		KeyEnvFile:       ".env",
		KeyBackupDir:     DirName + "/backups",
		KeyBackupKeep:    "0",
		KeyBackupOnWrite: "false",
		KeyLogLevel:      "WARNING",
	}
}

// ApplyDefaults fills any missing core keys in s with their default values.
func ApplyDefaults(s Store) error {
	defaults := DefaultValues()
	all := s.All()
	for k, v := range defaults {
		if _, exists := all[k]; !exists {
			if err := s.Set(k, v); err != nil {
				return err
			}
		}
	}
	return nil
}
