package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"envedit/internal/config"
	"envedit/internal/configservice"

	"github.com/spf13/cobra"
)

// newInitCmd creates the init command.
// Note: init doesn't use the provider's App since it creates the .envedit directory.
func newInitCmd(provider *AppProvider) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize envedit in a project",
		Long: `Create .envedit/config.yaml with default settings and the backup directory.

The project directory is --path, $ENVEDIT_DIR, or the current directory.
An empty .env file is created if none exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := provider.Out
			if out == nil {
				out = os.Stdout
			}
			base := provider.ProjectPath
			if base == "" {
				base = os.Getenv(config.EnvDir)
			}
			if base == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("getting current directory: %w", err)
				}
				base = cwd
			}
			return runInit(out, base, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Reinitialize even if .envedit exists")

	return cmd
}

func runInit(out io.Writer, base string, force bool) error {
	paths, err := configservice.ResolvePaths(base)
	if err != nil {
		return err
	}

	if _, err := os.Stat(paths.ConfigFile); err == nil {
		if !force {
			return errors.New("envedit is already initialized (use --force to reinitialize)")
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking %s: %w", paths.ConfigFile, err)
	}

	cfg, err := configservice.Init(paths)
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Paths.EnvFile); os.IsNotExist(err) {
		if err := os.WriteFile(cfg.Paths.EnvFile, nil, 0644); err != nil {
			return fmt.Errorf("creating %s: %w", cfg.Paths.EnvFile, err)
		}
	}

	fmt.Fprintf(out, "Initialized envedit in %s\n", paths.ConfigDir)
	fmt.Fprintf(out, "  env file: %s\n", cfg.Paths.EnvFile)
	fmt.Fprintf(out, "  backups:  %s\n", cfg.Paths.BackupDir)
	return nil
}
