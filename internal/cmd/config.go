package cmd

import (
	"fmt"
	"sort"

	"envedit/internal/config"
	"envedit/internal/config/yamlstore"

	"github.com/spf13/cobra"
)

// newConfigCmd creates the config command with subcommands.
func newConfigCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage envedit configuration settings.

Configuration is stored as flat key-value pairs in .envedit/config.yaml.
Known keys:
  paths.env_file    the .env file to edit
  paths.backup_dir  where backups are kept
  backup.keep       newest backups to keep, 0 keeps all
  backup.on_write   back up the file before every change
  log.level         TRACE, DEBUG, INFO, WARNING, ERROR or CRITICAL

Subcommands:
  get       Get a configuration value
  set       Set a configuration value
  list      List all configuration values
  unset     Remove a configuration value
  validate  Validate configuration`,
	}

	cmd.AddCommand(newConfigGetCmd(provider))
	cmd.AddCommand(newConfigSetCmd(provider))
	cmd.AddCommand(newConfigListCmd(provider))
	cmd.AddCommand(newConfigUnsetCmd(provider))
	cmd.AddCommand(newConfigValidateCmd(provider))

	return cmd
}

// configStore opens the on-disk config file, without environment overrides.
func configStore(app *App) (config.Store, error) {
	return yamlstore.New(app.Paths.ConfigFile)
}

func newConfigGetCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get the value of a configuration key.

Prints the bare value if the key is set, or "key (not set)" if missing.

Examples:
  envedit config get paths.env_file
  envedit config get backup.keep`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			store, err := configStore(app)
			if err != nil {
				return err
			}

			key := args[0]
			value, ok := store.Get(key)

			if app.JSON {
				return app.encode(map[string]interface{}{
					"key":   key,
					"value": value,
					"set":   ok,
				})
			}
			if ok {
				fmt.Fprintln(app.Out, value)
			} else {
				fmt.Fprintf(app.Out, "%s (not set)\n", key)
			}
			return nil
		},
	}
}

func newConfigSetCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration key to a value.

Values of known keys are validated before they are saved.

Examples:
  envedit config set backup.keep 20
  envedit config set backup.on_write true`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			store, err := configStore(app)
			if err != nil {
				return err
			}

			key, value := args[0], args[1]
			if err := store.Set(key, value); err != nil {
				return fmt.Errorf("setting config: %w", err)
			}

			if app.JSON {
				return app.encode(map[string]string{
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintf(app.Out, "Set %s = %s\n", key, value)
			return nil
		},
	}
}

func newConfigListCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration key-value pairs, sorted by key.

Known keys that are not set are shown with their default value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			store, err := configStore(app)
			if err != nil {
				return err
			}

			all := store.All()
			for k, v := range config.DefaultValues() {
				if _, exists := all[k]; !exists {
					all[k] = v
				}
			}

			if app.JSON {
				return app.encode(all)
			}

			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			fmt.Fprintln(app.Out, "Configuration:")
			for _, k := range keys {
				fmt.Fprintf(app.Out, "  %s = %s\n", k, all[k])
			}
			return nil
		},
	}
}

func newConfigUnsetCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Long: `Remove a configuration key. Known keys fall back to their default.

Examples:
  envedit config unset backup.keep`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			store, err := configStore(app)
			if err != nil {
				return err
			}

			key := args[0]
			if err := store.Unset(key); err != nil {
				return fmt.Errorf("unsetting config: %w", err)
			}

			if app.JSON {
				return app.encode(map[string]string{"key": key})
			}
			fmt.Fprintf(app.Out, "Unset %s\n", key)
			return nil
		},
	}
}

func newConfigValidateCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Long:  `Check that known keys have valid values. Unknown keys are accepted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			store, err := configStore(app)
			if err != nil {
				return err
			}

			issues := config.Issues(store)
			if issues == nil {
				issues = []string{}
			}

			if app.JSON {
				return app.encode(map[string]interface{}{
					"valid":  len(issues) == 0,
					"issues": issues,
				})
			}

			if len(issues) == 0 {
				fmt.Fprintln(app.Out, "Configuration is valid.")
				return nil
			}
			fmt.Fprintln(app.Out, "Configuration errors:")
			for _, msg := range issues {
				fmt.Fprintf(app.Out, "  %s\n", msg)
			}
			return fmt.Errorf("configuration has %d error(s)", len(issues))
		},
	}
}
