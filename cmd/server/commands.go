package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/scry-vocab/internal/service/auth"
)

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the review sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := initializeApp(*configFile)
			if err != nil {
				return err
			}
			app, err := newApplication(cmd.Context(), cfg, slog.Default())
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
}

func newMigrateCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := initializeApp(*configFile)
			if err != nil {
				return err
			}
			st, err := openStore(cmd.Context(), cfg.Database, slog.Default())
			if err != nil {
				return err
			}
			return st.Close()
		},
	}
}

// newTokenCommand mints a bearer token for a user id. The chat bridge signs
// its own tokens with the shared secret; this is for operators and local use.
func newTokenCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Print a bearer token for the given user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initializeApp(*configFile)
			if err != nil {
				return err
			}
			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}
			token, err := jwtService.GenerateToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}
