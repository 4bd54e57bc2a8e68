package editor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidKey is returned for keys that cannot be written as a KEY=VALUE line.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidValue is returned for values that cannot be written on one line.
	ErrInvalidValue = errors.New("invalid value")
)

// validateKey rejects keys that would not survive a round trip through the
// file: empty keys, keys containing "=" and keys spanning lines.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, "=\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// validateValue rejects values spanning lines; the file format has no
// multi-line values.
func validateValue(key, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: value for %q spans lines", ErrInvalidValue, key)
	}
	return nil
}
