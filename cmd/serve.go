package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpupo63/portfolio-api/api"
	"github.com/rpupo63/portfolio-api/auth"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP server",
	Long: `Migrate the database and start the HTTP server.

The server stops accepting connections on SIGINT or SIGTERM and waits up to
30 seconds for in-flight requests before exiting.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg := appConfig

	gormDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	db := database.New(gormDB)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()

	if err := db.Migrate(); err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		return fmt.Errorf("error initializing token service: %w", err)
	}

	bucket, err := storage.New(ctx, cfg.StorageConfig)
	if err != nil {
		return err
	}

	server, err := api.NewServer(cfg, api.Dependencies{
		Database: db,
		Tokens:   tokens,
		Storage:  bucket,
	})
	if err != nil {
		return fmt.Errorf("error initializing server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		return server.ShutdownGracefully(shutdownTimeout)
	})
	return g.Wait()
}
