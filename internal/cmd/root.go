package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"

	"envedit/internal/configservice"
	"envedit/internal/editor"

	"github.com/spf13/cobra"
)

// AppProvider lazily initializes the App on first use.
type AppProvider struct {
	once sync.Once
	app  *App
	err  error

	// Config captured from flags before Execute()
	ProjectPath string
	JSONOutput  bool
	LogLevel    string
	Out         io.Writer
	Err         io.Writer
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	return p.app, p.err
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a test App.
func NewTestProvider(app *App) *AppProvider {
	return &AppProvider{
		app: app,
		Out: app.Out,
		Err: app.Err,
	}
}

func (p *AppProvider) init() (*App, error) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := p.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	paths, err := configservice.ResolvePaths(p.ProjectPath)
	if err != nil {
		return nil, err
	}
	store, cfg, err := configservice.Load(paths)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if p.LogLevel != "" {
		level = p.LogLevel
	}
	if err := configureLogging(errOut, level); err != nil {
		return nil, err
	}

	ed, err := editor.New(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		Editor:      ed,
		ConfigStore: store,
		Config:      cfg,
		Paths:       paths,
		Out:         out,
		Err:         errOut,
		JSON:        p.JSONOutput,
	}, nil
}

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{
		Out: os.Stdout,
		Err: os.Stderr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(provider)
	return rootCmd.ExecuteContext(ctx)
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "envedit",
		Short: "Edit .env files without reformatting them",
		Long: `envedit reads and changes KEY=VALUE entries in a .env file while keeping
its layout: blank lines that separate groups of keys, and the order of every
line, are preserved on each write.

It also keeps timestamped backups of the file in .envedit/backups/ that can
be listed, inspected, restored and deleted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags - these populate the provider config
	rootCmd.PersistentFlags().BoolVar(&provider.JSONOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&provider.ProjectPath, "path", "", "Project directory or its .envedit directory (default: search from cwd)")
	rootCmd.PersistentFlags().StringVar(&provider.LogLevel, "log-level", "", "Log level (TRACE, DEBUG, INFO, WARNING, ERROR)")

	// Register all commands
	rootCmd.AddCommand(newInitCmd(provider))
	rootCmd.AddCommand(newListCmd(provider))
	rootCmd.AddCommand(newGetCmd(provider))
	rootCmd.AddCommand(newAddCmd(provider))
	rootCmd.AddCommand(newSetCmd(provider))
	rootCmd.AddCommand(newDeleteCmd(provider))
	rootCmd.AddCommand(newBackupCmd(provider))
	rootCmd.AddCommand(newWatchCmd(provider))
	rootCmd.AddCommand(newConfigCmd(provider))
	rootCmd.AddCommand(newVersionCmd(provider))

	return rootCmd
}
