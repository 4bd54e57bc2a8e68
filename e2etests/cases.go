package e2etests

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TestCase defines a named e2e test scenario. Fn returns an error when
// the binary does not behave as expected.
type TestCase struct {
	Name string
	Fn   func(r *Runner, n *Normalizer, sandbox string) error
}

// testCases is the ordered registry of all e2e test cases.
var testCases = []TestCase{
	{"01_add_set_delete", caseAddSetDelete},
	{"02_groups", caseGroups},
	{"03_layout_preserved", caseLayoutPreserved},
	{"04_backup_restore", caseBackupRestore},
	{"05_backup_upload", caseBackupUpload},
	{"06_config", caseConfig},
	{"07_errors", caseErrors},
}

// mustRun runs a command and returns the result, failing the test case on error.
func mustRun(r *Runner, sandbox string, args ...string) (RunResult, error) {
	result := r.Run(sandbox, args...)
	if result.ExitCode != 0 {
		return result, fmt.Errorf("command %v failed (exit %d): %s", args, result.ExitCode, result.Stderr)
	}
	return result, nil
}

// expectEnv compares the sandbox .env file with the given lines.
func expectEnv(sandbox string, want ...string) error {
	data, err := os.ReadFile(filepath.Join(sandbox, ".env"))
	if err != nil {
		return err
	}
	if got := string(data); got != strings.Join(want, "\n") {
		return fmt.Errorf(".env =\n%s\nwant\n%s", got, strings.Join(want, "\n"))
	}
	return nil
}

func writeEnv(sandbox, content string) error {
	return os.WriteFile(filepath.Join(sandbox, ".env"), []byte(content), 0644)
}

func expectOutput(label string, got, want string) error {
	if got != want {
		return fmt.Errorf("%s: output = %q, want %q", label, got, want)
	}
	return nil
}

// 01: Add, change and remove keys in a fresh project.
func caseAddSetDelete(r *Runner, n *Normalizer, sandbox string) error {
	if _, err := mustRun(r, sandbox, "add", "APP_NAME", "demo"); err != nil {
		return err
	}
	if _, err := mustRun(r, sandbox, "add", "APP_DEBUG", "true", "--group", "1"); err != nil {
		return err
	}
	if _, err := mustRun(r, sandbox, "set", "APP_NAME", "prod"); err != nil {
		return err
	}
	if err := expectEnv(sandbox, "APP_NAME=prod", "APP_DEBUG=true"); err != nil {
		return err
	}

	res, err := mustRun(r, sandbox, "get", "APP_DEBUG")
	if err != nil {
		return err
	}
	if err := expectOutput("get", res.Stdout, "true\n"); err != nil {
		return err
	}

	if _, err := mustRun(r, sandbox, "delete", "APP_NAME"); err != nil {
		return err
	}
	return expectEnv(sandbox, "APP_DEBUG=true")
}

// 02: New keys start new groups unless a group is named.
func caseGroups(r *Runner, n *Normalizer, sandbox string) error {
	for _, args := range [][]string{
		{"add", "A", "1"},
		{"add", "B", "2"},
		{"add", "C", "3"},
		{"add", "A2", "x", "--group", "1"},
	} {
		if _, err := mustRun(r, sandbox, args...); err != nil {
			return err
		}
	}
	if err := expectEnv(sandbox, "A=1", "A2=x", "", "B=2", "", "C=3"); err != nil {
		return err
	}

	res, err := mustRun(r, sandbox, "list")
	if err != nil {
		return err
	}
	want := "# group 1\nA=1\nA2=x\n\n# group 2\nB=2\n\n# group 3\nC=3\n"
	return expectOutput("list", res.Stdout, want)
}

// 03: Edits keep blank lines and key order written by hand.
func caseLayoutPreserved(r *Runner, n *Normalizer, sandbox string) error {
	if err := writeEnv(sandbox, "DB_HOST=localhost\nDB_PORT=5432\n\n\nMAIL=smtp\n"); err != nil {
		return err
	}
	if _, err := mustRun(r, sandbox, "set", "DB_PORT", "6543"); err != nil {
		return err
	}
	if err := expectEnv(sandbox, "DB_HOST=localhost", "DB_PORT=6543", "", "", "MAIL=smtp", ""); err != nil {
		return err
	}

	res := r.RunJSON(sandbox, "list")
	if res.ExitCode != 0 {
		return fmt.Errorf("list --json failed: %s", res.Stderr)
	}
	var entries []struct {
		Key         string      `json:"key"`
		Value       interface{} `json:"value"`
		Group       int         `json:"group"`
		IsSeparator bool        `json:"isSeparator"`
	}
	if err := json.Unmarshal([]byte(res.Stdout), &entries); err != nil {
		return fmt.Errorf("parsing list --json: %w", err)
	}
	if len(entries) != 6 {
		return fmt.Errorf("list --json returned %d entries, want 6", len(entries))
	}
	if entries[1].Value != "6543" {
		return fmt.Errorf("DB_PORT value = %#v, want \"6543\"", entries[1].Value)
	}
	if entries[4].Key != "MAIL" || entries[4].Group != 3 {
		return fmt.Errorf("MAIL entry = %+v, want group 3", entries[4])
	}
	return nil
}

// 04: Back up, change, restore.
func caseBackupRestore(r *Runner, n *Normalizer, sandbox string) error {
	if err := writeEnv(sandbox, "KEY=original\n"); err != nil {
		return err
	}
	res, err := mustRun(r, sandbox, "backup", "create")
	if err != nil {
		return err
	}
	name := BackupName(res.Stdout)
	if err := expectOutput("backup create", n.Text(res.Stdout), "Created backup BACKUP_1\n"); err != nil {
		return err
	}

	if _, err := mustRun(r, sandbox, "set", "KEY", "changed"); err != nil {
		return err
	}
	if _, err := mustRun(r, sandbox, "add", "EXTRA", "1"); err != nil {
		return err
	}

	res, err = mustRun(r, sandbox, "backup", "restore", name)
	if err != nil {
		return err
	}
	want := "Restored BACKUP_1\n- EXTRA\n~ KEY: changed -> original\n"
	if err := expectOutput("backup restore", n.Text(res.Stdout), want); err != nil {
		return err
	}
	if err := expectEnv(sandbox, "KEY=original", ""); err != nil {
		return err
	}

	if _, err := mustRun(r, sandbox, "backup", "delete", name); err != nil {
		return err
	}
	res, err = mustRun(r, sandbox, "backup", "list")
	if err != nil {
		return err
	}
	return expectOutput("backup list", res.Stdout, "No backups\n")
}

// 05: Upload from stdin, as a backup and as the current file.
func caseBackupUpload(r *Runner, n *Normalizer, sandbox string) error {
	res := r.RunInput(sandbox, "UPLOADED=1\n", "backup", "upload", "-")
	if res.ExitCode != 0 {
		return fmt.Errorf("upload failed: %s", res.Stderr)
	}
	name := BackupName(res.Stdout)
	if name == "" {
		return fmt.Errorf("upload output has no backup name: %q", res.Stdout)
	}

	show, err := mustRun(r, sandbox, "backup", "show", name)
	if err != nil {
		return err
	}
	if err := expectOutput("backup show", show.Stdout, "UPLOADED=1\n"); err != nil {
		return err
	}

	res = r.RunInput(sandbox, "REPLACED=yes\n", "backup", "upload", "-", "--replace")
	if res.ExitCode != 0 {
		return fmt.Errorf("upload --replace failed: %s", res.Stderr)
	}
	if err := expectOutput("upload --replace", n.Text(res.Stdout), "Replaced SANDBOX/.env\n"); err != nil {
		return err
	}
	return expectEnv(sandbox, "REPLACED=yes", "")
}

// 06: Settings round trip and backup.on_write.
func caseConfig(r *Runner, n *Normalizer, sandbox string) error {
	if _, err := mustRun(r, sandbox, "config", "set", "backup.on_write", "true"); err != nil {
		return err
	}
	res, err := mustRun(r, sandbox, "config", "get", "backup.on_write")
	if err != nil {
		return err
	}
	if err := expectOutput("config get", res.Stdout, "true\n"); err != nil {
		return err
	}

	if _, err := mustRun(r, sandbox, "add", "K", "v"); err != nil {
		return err
	}
	res = r.RunJSON(sandbox, "backup", "list")
	if res.ExitCode != 0 {
		return fmt.Errorf("backup list failed: %s", res.Stderr)
	}
	var backups []map[string]interface{}
	if err := json.Unmarshal([]byte(res.Stdout), &backups); err != nil {
		return fmt.Errorf("parsing backup list: %w", err)
	}
	if len(backups) != 1 {
		return fmt.Errorf("backup.on_write made %d backups, want 1", len(backups))
	}

	if res := r.Run(sandbox, "config", "set", "backup.keep", "-3"); res.ExitCode == 0 {
		return fmt.Errorf("config set backup.keep -3 should fail")
	}
	res, err = mustRun(r, sandbox, "config", "validate")
	if err != nil {
		return err
	}
	return expectOutput("config validate", res.Stdout, "Configuration is valid.\n")
}

// 07: Failures leave the file alone and exit non-zero.
func caseErrors(r *Runner, n *Normalizer, sandbox string) error {
	if err := writeEnv(sandbox, "ONLY=1\n"); err != nil {
		return err
	}
	for _, args := range [][]string{
		{"add", "ONLY", "2"},
		{"set", "MISSING", "x"},
		{"delete", "MISSING"},
		{"add", "NEW", "x", "--group", "9"},
		{"backup", "restore", "env_2000-01-01_000000"},
		{"backup", "show", "../.env"},
	} {
		res := r.Run(sandbox, args...)
		if res.ExitCode == 0 {
			return fmt.Errorf("%v: expected failure, got %q", args, res.Stdout)
		}
		if strings.TrimSpace(res.Stderr) == "" {
			return fmt.Errorf("%v: expected an error message on stderr", args)
		}
	}
	return expectEnv(sandbox, "ONLY=1", "")
}
