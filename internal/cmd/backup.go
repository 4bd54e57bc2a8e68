package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"envedit/internal/backup"
	"envedit/internal/dotenv"
	"envedit/internal/envfile"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// newBackupCmd creates the backup command with subcommands.
func newBackupCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage backups of the .env file",
		Long: `Manage timestamped backups of the .env file.

Backups are stored in the backup directory (paths.backup_dir) and named
env_YYYY-MM-DD_HHMMSS.

Subcommands:
  create   Back up the current .env file
  list     List backups, newest first
  show     Print a backup
  restore  Replace the .env file with a backup
  delete   Remove a backup
  upload   Store a file as a new backup
  path     Print the path of a backup`,
	}

	cmd.AddCommand(newBackupCreateCmd(provider))
	cmd.AddCommand(newBackupListCmd(provider))
	cmd.AddCommand(newBackupShowCmd(provider))
	cmd.AddCommand(newBackupRestoreCmd(provider))
	cmd.AddCommand(newBackupDeleteCmd(provider))
	cmd.AddCommand(newBackupUploadCmd(provider))
	cmd.AddCommand(newBackupPathCmd(provider))

	return cmd
}

func newBackupCreateCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Back up the current .env file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			b, err := app.Editor.BackupCurrent(cmd.Context())
			if err != nil {
				return err
			}

			if app.JSON {
				return app.encode(b)
			}
			fmt.Fprintf(app.Out, "%s %s\n", app.SuccessColor("Created backup"), b.Name)
			return nil
		},
	}
}

func newBackupListCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			bs, err := app.Editor.Backups(cmd.Context())
			if err != nil {
				return err
			}

			if app.JSON {
				if bs == nil {
					bs = []backup.Backup{}
				}
				return app.encode(bs)
			}

			if len(bs) == 0 {
				fmt.Fprintln(app.Out, "No backups")
				return nil
			}
			printBackups(app.Out, bs)
			return nil
		},
	}
}

func printBackups(w io.Writer, bs []backup.Backup) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCREATED\tSIZE\tKEYS")
	for _, b := range bs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
			b.Name,
			humanize.Time(b.CreatedAt),
			humanize.Bytes(uint64(b.Size)),
			len(b.Entries.Keys()))
	}
	tw.Flush()
}

func newBackupShowCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			b, err := app.Editor.Backup(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if app.JSON {
				return app.encode(b)
			}
			fmt.Fprint(app.Out, b.Content)
			if b.Content != "" && b.Content[len(b.Content)-1] != '\n' {
				fmt.Fprintln(app.Out)
			}
			return nil
		},
	}
}

func newBackupRestoreCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <name>",
		Short: "Replace the .env file with a backup",
		Long: `Replace the .env file with the contents of a backup.

The key changes made by the restore are printed. When backup.on_write is
enabled, the current file is backed up first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			name := args[0]

			before, err := app.Editor.Entries(ctx, "")
			if err != nil && !errors.Is(err, envfile.ErrFileNotExists) {
				return err
			}
			if err := app.Editor.Restore(ctx, name); err != nil {
				return err
			}
			after, err := app.Editor.Entries(ctx, "")
			if err != nil {
				return err
			}
			changes := dotenv.Diff(before, after)

			if app.JSON {
				if changes == nil {
					changes = []dotenv.Change{}
				}
				return app.encode(map[string]interface{}{
					"restored": name,
					"changes":  changes,
				})
			}

			fmt.Fprintf(app.Out, "%s %s\n", app.SuccessColor("Restored"), name)
			printChanges(app, changes)
			return nil
		},
	}
}

func newBackupDeleteCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a backup",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			name := args[0]
			if err := app.Editor.DeleteBackup(cmd.Context(), name); err != nil {
				return err
			}

			if app.JSON {
				return app.encode(map[string]interface{}{
					"name":    name,
					"deleted": true,
				})
			}
			fmt.Fprintf(app.Out, "%s %s\n", app.SuccessColor("Deleted backup"), name)
			return nil
		},
	}
}

func newBackupUploadCmd(provider *AppProvider) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Store a file as a new backup",
		Long: `Store the contents of a file as a new backup.

Use "-" to read from standard input. With --replace the file overwrites
the .env file instead (backing it up first when backup.on_write is set).

Examples:
  envedit backup upload staging.env
  cat prod.env | envedit backup upload - --replace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			var r io.Reader
			if args[0] == "-" {
				r = cmd.InOrStdin()
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			path, err := app.Editor.Upload(cmd.Context(), r, replace)
			if err != nil {
				return err
			}

			if app.JSON {
				return app.encode(map[string]interface{}{
					"path":     path,
					"replaced": replace,
				})
			}
			if replace {
				fmt.Fprintf(app.Out, "%s %s\n", app.SuccessColor("Replaced"), path)
				return nil
			}
			fmt.Fprintf(app.Out, "%s %s\n", app.SuccessColor("Uploaded backup"), filepath.Base(path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the .env file instead of creating a backup")

	return cmd
}

func newBackupPathCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "path [name]",
		Short: "Print the path of a backup, or of the .env file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			p, err := app.Editor.FilePath(name)
			if err != nil {
				return err
			}

			if app.JSON {
				return app.encode(map[string]string{"path": p})
			}
			fmt.Fprintln(app.Out, p)
			return nil
		},
	}
}

// printChanges writes one line per key change: + added, - removed, ~ changed.
func printChanges(app *App, changes []dotenv.Change) {
	if len(changes) == 0 {
		fmt.Fprintln(app.Out, "No key changes")
		return
	}
	for _, c := range changes {
		switch c.Kind {
		case dotenv.Added:
			fmt.Fprintf(app.Out, "%s %s=%s\n", app.SuccessColor("+"), c.Key, c.New)
		case dotenv.Removed:
			fmt.Fprintf(app.Out, "%s %s\n", app.WarnColor("-"), c.Key)
		case dotenv.Changed:
			fmt.Fprintf(app.Out, "~ %s: %s -> %s\n", c.Key, c.Old, c.New)
		}
	}
}
