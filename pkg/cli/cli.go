package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tasklist/pkg/config"
	"tasklist/pkg/database"
	"tasklist/pkg/store"
	"tasklist/pkg/ui"
	"tasklist/pkg/utils"
)

// App holds everything a command needs once startup succeeded
type App struct {
	Config config.Config
	DB     *sql.DB
	Store  *store.Store
}

// Open loads configuration, starts logging, opens the database and reads
// the stored tasks into a fresh store
func Open(ctx context.Context, configPath string, verbose bool) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}

	if err := utils.InitLogger(cfg.Verbose, cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	gw := database.NewGateway(database.NewSQLiteStore(db), cfg.StorageKey, cfg.Timeout)
	s := store.New(gw)
	s.LoadAll(ctx)

	return &App{Config: cfg, DB: db, Store: s}, nil
}

// Close releases the database and the log file
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
	utils.CloseLogger()
}

var (
	configPath string
	verbose    bool
	app        *App
)

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tasklist",
		Short: "A personal task list",
		Long: `tasklist keeps a local list of tasks with a priority and an optional due date.

Run without arguments to open the terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			closeApp()
			a, err := Open(cmd.Context(), configPath, verbose)
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
		RunE: runUI,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newUICmd(),
		newAddCmd(),
		newListCmd(),
		newDoneCmd(),
		newEditCmd(),
		newRemoveCmd(),
		newExportCmd(),
		newImportCmd(),
		newPurgeCmd(),
	)

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context, version string) error {
	rootCmd := NewRootCommand()
	rootCmd.Version = version
	// Post-run hooks are skipped when a command fails
	defer closeApp()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func closeApp() {
	if app != nil {
		app.Close()
		app = nil
	}
}

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal UI",
		Args:  cobra.NoArgs,
		RunE:  runUI,
	}
}

func runUI(cmd *cobra.Command, args []string) error {
	m := ui.NewModel(cmd.Context(), app.Store, app.Config)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
