package cmd

import (
	"errors"
	"fmt"

	"envedit/internal/dotenv"
	"envedit/internal/editor"

	"github.com/spf13/cobra"
)

// newGetCmd creates the get command.
func newGetCmd(provider *AppProvider) *cobra.Command {
	var def string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value of a key",
		Long: `Print the value of a key in the .env file.

If the key is missing or has an empty value, the --default value is printed
instead. Without a default, a missing key prints "KEY (not set)".

Examples:
  envedit get APP_ENV
  envedit get APP_DEBUG --default false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			key := args[0]
			es, err := app.Editor.Entries(cmd.Context(), "")
			if err != nil {
				return err
			}
			exists := es.Has(key)
			value := es.Get(key, dotenv.ParseValue(def))

			if app.JSON {
				return app.encode(map[string]interface{}{
					"key":    key,
					"value":  value,
					"exists": exists,
				})
			}

			if !exists && def == "" {
				fmt.Fprintf(app.Out, "%s (not set)\n", key)
				return nil
			}
			fmt.Fprintln(app.Out, value)
			return nil
		},
	}

	cmd.Flags().StringVar(&def, "default", "", "Value to print when the key is missing or empty")

	return cmd
}

// newAddCmd creates the add command.
func newAddCmd(provider *AppProvider) *cobra.Command {
	var group int

	cmd := &cobra.Command{
		Use:   "add <key> [value]",
		Short: "Add a new key",
		Long: `Add a new key to the .env file.

By default the key starts a new group at the end of the file, separated
from the previous keys by a blank line. With --group N it is appended to
the end of existing group N instead.

Adding a key that already exists is an error; use "envedit set" to change it.

Examples:
  envedit add MAIL_HOST smtp.example.com
  envedit add MAIL_PORT 587 --group 3
  envedit add EMPTY_KEY`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			key := args[0]
			raw := ""
			if len(args) == 2 {
				raw = args[1]
			}
			value := dotenv.ParseValue(raw)

			err = app.Editor.Add(cmd.Context(), key, value, editor.AddOptions{Group: group})
			if err != nil {
				if errors.Is(err, dotenv.ErrKeyAlreadyExists) {
					return fmt.Errorf("%w (use 'envedit set' to change it)", err)
				}
				return err
			}

			if app.JSON {
				return app.encode(map[string]interface{}{
					"key":   key,
					"value": value,
					"added": true,
				})
			}
			fmt.Fprintf(app.Out, "%s %s=%s\n", app.SuccessColor("Added"), key, value)
			return nil
		},
	}

	cmd.Flags().IntVar(&group, "group", 0, "Append to this existing group instead of starting a new one")

	return cmd
}

// newSetCmd creates the set command.
func newSetCmd(provider *AppProvider) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change the value of a key",
		Long: `Change the value of an existing key in place.

The key keeps its position and group. Only the first occurrence of a
duplicated key is changed. Setting a missing key is an error unless
--create is given, in which case it is added as with "envedit add".

Examples:
  envedit set APP_ENV production
  envedit set APP_KEY ""
  envedit set NEW_KEY value --create`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			key := args[0]
			value := dotenv.ParseValue(args[1])
			ctx := cmd.Context()

			action := "Set"
			err = app.Editor.Edit(ctx, key, value)
			if errors.Is(err, dotenv.ErrKeyNotFound) && create {
				action = "Added"
				err = app.Editor.Add(ctx, key, value, editor.AddOptions{})
			}
			if err != nil {
				return err
			}

			if app.JSON {
				return app.encode(map[string]interface{}{
					"key":     key,
					"value":   value,
					"created": action == "Added",
				})
			}
			fmt.Fprintf(app.Out, "%s %s=%s\n", app.SuccessColor(action), key, value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&create, "create", false, "Add the key if it does not exist")

	return cmd
}

// newDeleteCmd creates the delete command.
func newDeleteCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <key>",
		Aliases: []string{"unset", "rm"},
		Short:   "Remove a key",
		Long: `Remove a key from the .env file.

Only the first occurrence of a duplicated key is removed. The rest of the
file, including blank lines, is left as it is.

Examples:
  envedit delete OLD_SETTING`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			key := args[0]
			if err := app.Editor.Delete(cmd.Context(), key); err != nil {
				return err
			}

			if app.JSON {
				return app.encode(map[string]interface{}{
					"key":     key,
					"deleted": true,
				})
			}
			fmt.Fprintf(app.Out, "%s %s\n", app.SuccessColor("Deleted"), key)
			return nil
		},
	}

	return cmd
}
