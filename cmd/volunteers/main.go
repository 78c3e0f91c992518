package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-volunteers/config"
	"github.com/goliatone/go-volunteers/pkg/di"
	"github.com/goliatone/go-volunteers/pkg/logging"
)

// App holds the application dependencies
type App struct {
	ctx        context.Context
	configPath string
	logLevel   string
	dev        bool

	cfg       *config.Config
	logger    *zap.Logger
	container *di.Container
}

func main() {
	// A missing .env file is fine; the environment is used as is.
	_ = godotenv.Load()

	app := &App{ctx: context.Background()}
	if err := newRootCmd(app).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "volunteers",
		Short:         "Volunteer directory - manage volunteers, drives and skills",
		Long:          `A CLI for the volunteer directory: register volunteers, search them by name or proximity, record drives and manage the skill catalog.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&app.dev, "dev", false, "Human readable logs")

	rootCmd.AddCommand(migrateCmd(app))
	rootCmd.AddCommand(createCmd(app))
	rootCmd.AddCommand(getCmd(app))
	rootCmd.AddCommand(listCmd(app))
	rootCmd.AddCommand(searchCmd(app))
	rootCmd.AddCommand(nearbyCmd(app))
	rootCmd.AddCommand(availableCmd(app))
	rootCmd.AddCommand(updateCmd(app))
	rootCmd.AddCommand(deleteCmd(app))
	rootCmd.AddCommand(countCmd(app))
	rootCmd.AddCommand(drivesCmd(app))
	rootCmd.AddCommand(skillsCmd(app))

	return rootCmd
}

// init loads configuration, builds the logger and wires the container.
func (app *App) init() error {
	cfg, err := config.Load(app.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if app.logLevel != "" {
		cfg.Log.Level = app.logLevel
	}
	if app.dev {
		cfg.Log.Development = true
	}
	app.cfg = cfg

	app.logger, err = logging.New(logging.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.logger.Debug("configuration loaded",
		zap.String("driver", cfg.Database.Driver),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	app.container, err = di.NewContainer(app.ctx, *cfg, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	return nil
}

func (app *App) close() error {
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	if app.container == nil {
		return nil
	}
	err := app.container.Close()
	app.container = nil
	return err
}
