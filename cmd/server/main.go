// Package main is the entry point of the vocabulary flashcard service. It
// serves the HTTP command surface used by the chat bridge, runs the periodic
// review sweep and manages the database schema.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-vocab/internal/config"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "scry-vocab",
		Short:         "Korean vocabulary flashcards with spaced repetition",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file (default ./config.yaml when present)")

	root.AddCommand(
		newServeCommand(&configFile),
		newMigrateCommand(&configFile),
		newTokenCommand(&configFile),
	)
	return root
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp(configFile string) (*config.Config, error) {
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"notifier", cfg.Notifier.Kind)
	return cfg, nil
}
