package e2etests

import (
	"fmt"
	"regexp"
	"strings"
)

// Normalizer replaces run-specific values in command output (sandbox
// paths and backup names) with stable placeholders.
type Normalizer struct {
	sandbox   string
	backups   map[string]string // "env_2024-03-01_120000" -> "BACKUP_1"
	backupSeq int
}

// NewNormalizer creates a Normalizer for one sandbox.
func NewNormalizer(sandbox string) *Normalizer {
	return &Normalizer{
		sandbox: sandbox,
		backups: make(map[string]string),
	}
}

var backupNamePattern = regexp.MustCompile(`env_\d{4}-\d{2}-\d{2}_\d{6}(_\d+)?`)

// mapBackup returns the stable placeholder for a backup name,
// assigning a new one if this is the first time we've seen it.
func (n *Normalizer) mapBackup(name string) string {
	if mapped, ok := n.backups[name]; ok {
		return mapped
	}
	n.backupSeq++
	mapped := fmt.Sprintf("BACKUP_%d", n.backupSeq)
	n.backups[name] = mapped
	return mapped
}

// Text normalizes plain text output.
func (n *Normalizer) Text(s string) string {
	if n.sandbox != "" {
		s = strings.ReplaceAll(s, n.sandbox, "SANDBOX")
	}
	return backupNamePattern.ReplaceAllStringFunc(s, n.mapBackup)
}

// BackupName returns the first backup name found in s.
func BackupName(s string) string {
	return backupNamePattern.FindString(s)
}
