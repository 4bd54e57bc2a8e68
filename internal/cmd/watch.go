package cmd

import (
	"fmt"
	"time"

	"envedit/internal/dotenv"
	"envedit/internal/watch"

	"github.com/spf13/cobra"
)

// newWatchCmd creates the watch command.
func newWatchCmd(provider *AppProvider) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print key changes as the .env file is modified",
		Long: `Follow the .env file and print every key that is added, removed or
changed by another program. Stops on Ctrl-C.

With --json each batch of changes is printed as one JSON array per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			w := watch.New(app.Editor.EnvPath())
			w.Debounce = debounce

			ctx := cmd.Context()
			changes := make(chan []dotenv.Change)
			done := make(chan error, 1)
			go func() {
				done <- w.Run(ctx, changes)
			}()

			if !app.JSON {
				fmt.Fprintf(app.Err, "Watching %s\n", app.Editor.EnvPath())
			}
			for {
				select {
				case err := <-done:
					return err
				case batch := <-changes:
					if app.JSON {
						if err := app.encode(batch); err != nil {
							return err
						}
						continue
					}
					fmt.Fprintln(app.Out, time.Now().Format("15:04:05"))
					printChanges(app, batch)
				}
			}
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Wait this long after the last event before re-reading")

	return cmd
}
