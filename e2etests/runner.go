// Package e2etests runs the envedit binary named by $ENVEDIT_CMD against
// throwaway project directories.
package e2etests

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// Runner executes envedit commands against a sandbox directory.
type Runner struct {
	Cmd string // path to envedit binary
}

// SetupSandbox creates a fresh project directory, runs "envedit init" in it
// and returns its path.
func (r *Runner) SetupSandbox() (string, error) {
	dir, err := os.MkdirTemp("", "envedit-e2e-")
	if err != nil {
		return "", fmt.Errorf("creating sandbox: %w", err)
	}
	res := r.Run(dir, "init")
	if res.ExitCode != 0 {
		os.RemoveAll(dir)
		return "", fmt.Errorf("init failed (exit %d): %s", res.ExitCode, res.Stderr)
	}
	return dir, nil
}

// TeardownSandbox removes a sandbox directory.
func (r *Runner) TeardownSandbox(path string) error {
	return os.RemoveAll(path)
}

// RunResult holds the output of a command execution.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes an envedit command with the given arguments.
// It sets ENVEDIT_DIR to the sandbox path so the command finds the right
// project.
func (r *Runner) Run(sandbox string, args ...string) RunResult {
	return r.RunInput(sandbox, "", args...)
}

// RunInput is Run with stdin fed from input.
func (r *Runner) RunInput(sandbox, input string, args ...string) RunResult {
	cmd := exec.Command(r.Cmd, args...)
	cmd.Env = append(os.Environ(), "ENVEDIT_DIR="+sandbox)
	cmd.Stdin = bytes.NewBufferString(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	return RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// RunJSON executes an envedit command with the --json flag appended.
func (r *Runner) RunJSON(sandbox string, args ...string) RunResult {
	fullArgs := append(args, "--json")
	return r.Run(sandbox, fullArgs...)
}
