package config

import "path/filepath"

// DirName is the per-project settings directory.
const DirName = ".envedit"

// FileName is the settings file inside DirName.
const FileName = "config.yaml"

// Paths captures resolved locations for settings.
type Paths struct {
	Root       string // project directory; relative settings resolve against it
	ConfigDir  string // path to .envedit directory
	ConfigFile string // path to .envedit/config.yaml
}

// PathsFromRoot returns the settings locations for a project directory.
func PathsFromRoot(root string) Paths {
	dir := filepath.Join(root, DirName)
	return Paths{
		Root:       root,
		ConfigDir:  dir,
		ConfigFile: filepath.Join(dir, FileName),
	}
}
