// Package cmd implements the envedit command-line interface.
package cmd

import (
	"encoding/json"
	"io"
	"os"

	"envedit/internal/config"
	"envedit/internal/editor"

	"golang.org/x/term"
)

// App holds application state shared across commands.
type App struct {
	Editor      *editor.Editor
	ConfigStore config.Store
	Config      config.Config
	Paths       config.Paths
	Out         io.Writer
	Err         io.Writer
	JSON        bool // output in JSON format
}

// encode writes v to Out as JSON.
func (a *App) encode(v interface{}) error {
	return json.NewEncoder(a.Out).Encode(v)
}

// isTerminal reports whether Out is an interactive terminal.
func (a *App) isTerminal() bool {
	f, ok := a.Out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SuccessColor returns the string wrapped in green ANSI codes if stdout is a terminal,
// otherwise returns the string unchanged.
func (a *App) SuccessColor(s string) string {
	if a.isTerminal() {
		return "\033[32m" + s + "\033[0m"
	}
	return s
}

// WarnColor returns the string wrapped in orange ANSI codes if stdout is a terminal,
// otherwise returns the string unchanged.
func (a *App) WarnColor(s string) string {
	if a.isTerminal() {
		return "\033[38;5;214m" + s + "\033[0m"
	}
	return s
}

// KeyColor returns the string in bold if stdout is a terminal.
func (a *App) KeyColor(s string) string {
	if a.isTerminal() {
		return "\033[1m" + s + "\033[0m"
	}
	return s
}
