package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"qcreg/internal/config"
	"qcreg/internal/db"
	"qcreg/internal/logging"
	"qcreg/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions holds the persistent flags and the configuration they resolve to.
type rootOptions struct {
	configPath string
	dbPath     string
	logFile    string
	operator   string
	locale     string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCmd builds the qcreg command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "qcreg",
		Short: "Register and browse QC documents",
		Long: `qcreg is a terminal front end for QC document registration.

Run without arguments to open the interactive tables. Click a column
header to cycle its sort: ascending, descending, then original order.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: ~/.qcreg/config.toml)")
	flags.StringVar(&opts.dbPath, "db", "", "Path to SQLite database file (overrides db_path)")
	flags.StringVar(&opts.logFile, "log-file", "", "Path to log file (overrides log_file)")
	flags.StringVar(&opts.operator, "operator", "", "Operator name recorded in the operation log")
	flags.StringVar(&opts.locale, "locale", "", "Collation locale for text columns, e.g. en or zh")

	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newOplogCmd(opts))
	return cmd
}

// Execute runs the root command.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

// load reads the config file and applies flag overrides.
func (o *rootOptions) load(cmd *cobra.Command) error {
	path := o.configPath
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = o.dbPath
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if flags.Changed("operator") {
		cfg.Operator = o.operator
	}
	if flags.Changed("locale") {
		cfg.Locale = o.locale
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = logger.With(
		zap.String("command", cmd.Name()),
		zap.String("session", uuid.NewString()))
	o.logger.Debug("configuration loaded",
		zap.String("config", path),
		zap.String("db", cfg.DBPath),
		zap.String("locale", cfg.Locale))
	return nil
}

func (o *rootOptions) openDB() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(o.cfg.DBPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	database, err := db.Open(o.cfg.DBPath)
	if err != nil {
		o.logger.Error("failed to open database", zap.String("path", o.cfg.DBPath), zap.Error(err))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func runTUI(opts *rootOptions) error {
	database, err := opts.openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	model := ui.New(ui.Options{
		DB:        database,
		Config:    opts.cfg,
		Logger:    opts.logger,
		PrefsPath: ui.PrefsPath(opts.cfg.DBPath),
	})

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.cfg.UI.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	opts.logger.Info("starting ui", zap.String("operator", opts.cfg.Operator))
	if _, err := tea.NewProgram(model, programOpts...).Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
