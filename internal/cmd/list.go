package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newListCmd creates the list command.
func newListCmd(provider *AppProvider) *cobra.Command {
	var (
		backupName string
		asYAML     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries of the .env file",
		Long: `List every key in the .env file, group by group.

Groups are the runs of keys separated by blank lines in the file. With
--json or --yaml every line is printed with its key, value, group, index
and separator flag.

Examples:
  envedit list
  envedit list --backup env_2024-03-01_120000
  envedit list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			es, err := app.Editor.Entries(cmd.Context(), backupName)
			if err != nil {
				return err
			}

			if app.JSON {
				return app.encode(es)
			}
			if asYAML {
				enc := yaml.NewEncoder(app.Out)
				defer enc.Close()
				return enc.Encode(es)
			}

			printed := 0
			for _, group := range es.Groups() {
				var keys int
				for _, e := range group {
					if !e.IsSeparator() {
						keys++
					}
				}
				if keys == 0 {
					continue
				}
				if printed > 0 {
					fmt.Fprintln(app.Out)
				}
				fmt.Fprintf(app.Out, "# group %d\n", group[0].Group())
				for _, e := range group {
					if e.IsSeparator() {
						continue
					}
					fmt.Fprintf(app.Out, "%s=%s\n", app.KeyColor(e.Key()), e.Value())
				}
				printed++
			}
			if printed == 0 {
				fmt.Fprintln(app.Out, "No entries")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backupName, "backup", "", "List a backup instead of the current file")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Output in YAML format")

	return cmd
}
