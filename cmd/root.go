package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/agentic-research/scribe/internal/backup"
	"github.com/agentic-research/scribe/internal/config"
	"github.com/agentic-research/scribe/internal/pipeline"
	"github.com/agentic-research/scribe/internal/project"
)

// version is overridden at build time with -ldflags "-X".
var version = "dev"

var (
	configPath string
	projectDir string
	logLevel   string
	dryRun     bool

	cfg    *config.Config
	logger zerolog.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to scribe.yaml")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "p", "", "Web project directory (default from config, else .)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Print diffs instead of writing files")
}

var rootCmd = &cobra.Command{
	Use:           "scribe",
	Short:         "Edit the resource list and translation table of the tutoring web project",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if projectDir != "" {
			c.ProjectDir = projectDir
		}
		if logLevel != "" {
			c.LogLevel = logLevel
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
			Level(cfg.Level()).With().Timestamp().Logger()
		log.Logger = logger
		return nil
	},
}

// openProject opens the configured web project.
func openProject() (*project.Project, error) {
	return project.Open(cfg.ProjectDir, cfg.ProjectPaths())
}

// backupPath resolves the backup database relative to the project.
func backupPath() string {
	if filepath.IsAbs(cfg.BackupDB) {
		return cfg.BackupDB
	}
	return filepath.Join(cfg.ProjectDir, cfg.BackupDB)
}

func openStore() (*backup.Store, error) {
	path := backupPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return backup.Open(path, logger)
}

// openPipeline returns a pipeline over the configured project. withStore
// opens the backup database; the returned func closes it.
func openPipeline(withStore bool) (*pipeline.Pipeline, func(), error) {
	proj, err := openProject()
	if err != nil {
		return nil, nil, err
	}
	var store *backup.Store
	if withStore && cfg.BackupDB != "" {
		if store, err = openStore(); err != nil {
			return nil, nil, err
		}
	}
	p := pipeline.New(proj, store, cfg.EditorOptions(), logger)
	p.Keep = cfg.BackupsKept
	p.DryRun = dryRun
	closer := func() {
		if store != nil {
			_ = store.Close()
		}
	}
	return p, closer, nil
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}
