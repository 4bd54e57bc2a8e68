package dotenv

import "errors"

var (
	// ErrKeyNotFound is returned when editing or deleting a key that is
	// not in the file.
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyAlreadyExists is returned when adding a key that is already
	// in the file.
	ErrKeyAlreadyExists = errors.New("key already exists")
)
