package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// validValues maps known keys to their allowed values.
// An empty slice means any non-empty string is accepted.
var validValues = map[string][]string{
	KeyEnvFile:       {},
	KeyBackupDir:     {},
	KeyBackupKeep:    {},
	KeyBackupOnWrite: {"true", "false"},
	KeyLogLevel:      {"TRACE", "DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"},
}

// ValidateValue checks a single value. Unknown keys are always valid.
func ValidateValue(key, val string) error {
	allowed, known := validValues[key]
	if !known {
		return nil
	}

	if len(allowed) > 0 {
		if !contains(allowed, strings.ToUpper(val)) && !contains(allowed, val) {
			return fmt.Errorf("%s: invalid value %q (allowed: %s)",
				key, val, strings.Join(allowed, ", "))
		}
		return nil
	}

	// Keys with no enumerated values have type-specific checks.
	switch key {
	case KeyBackupKeep:
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return fmt.Errorf("%s: must be a non-negative integer, got %q", key, val)
		}
	default:
		if val == "" {
			return fmt.Errorf("%s: must not be empty", key)
		}
	}
	return nil
}

// Issues returns one message per invalid value in s, sorted.
func Issues(s Store) []string {
	var issues []string
	for key, val := range s.All() {
		if err := ValidateValue(key, val); err != nil {
			issues = append(issues, err.Error())
		}
	}
	sort.Strings(issues)
	return issues
}

// Validate checks all values in s for known keys. It returns an error
// describing every invalid value found, or nil if all values are valid.
func Validate(s Store) error {
	issues := Issues(s)
	if len(issues) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed:\n  %s", strings.Join(issues, "\n  "))
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
