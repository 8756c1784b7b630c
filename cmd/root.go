// Package cmd wires configuration, logging and storage into the portfolio-api commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// appConfig is loaded once in PersistentPreRunE, before any subcommand runs.
var appConfig *config.Config

// noConfigCommands run without a valid environment.
var noConfigCommands = map[string]bool{
	"help":       true,
	"completion": true,
}

var rootCmd = &cobra.Command{
	Use:   "portfolio-api",
	Short: "Portfolio content API",
	Long: `portfolio-api serves projects, blog posts, categories and work experience
as JSON, with token-gated writes and image uploads to an S3-compatible bucket.

Running without a subcommand is the same as "portfolio-api serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if noConfigCommands[topLevelCmdName(cmd)] {
			return nil
		}
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		appConfig = cfg
		setupLogging(cfg)
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command. Exit code 1 indicates an error.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, adminCmd)
}

// topLevelCmdName returns the direct child of root that cmd belongs to.
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// setupLogging writes JSON in production and colored console output everywhere else.
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// openDatabase connects using the loaded configuration. SQL statements are only logged at debug level.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}

	db, err := database.Open(database.Options{
		Type:        cfg.DBType,
		URL:         cfg.DatabaseURL,
		ReplicaURLs: cfg.ReplicaURLs,
		LogLevel:    level,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("dbType", cfg.DBType).Int("replicas", len(cfg.ReplicaURLs)).Msg("connected to database")
	return db, nil
}
