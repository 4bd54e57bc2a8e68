package backup

import "errors"

var (
	// ErrNameRequired is returned when an operation needs a backup name
	// and none was given.
	ErrNameRequired = errors.New("backup name is required")

	// ErrBackupNotFound is returned when a named backup does not exist.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrInvalidName is returned for names that would escape the backup
	// directory.
	ErrInvalidName = errors.New("invalid backup name")

	// ErrFileNotExists is returned by Path when the resolved file is missing.
	ErrFileNotExists = errors.New("file does not exist")
)
