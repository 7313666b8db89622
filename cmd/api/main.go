package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medislot/cmd/internal/auth"
	"medislot/cmd/internal/config"
	"medislot/cmd/internal/domain/database"
	"medislot/cmd/internal/utils"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:   "medislot",
		Short: "Doctor appointment and slot availability API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), envFile)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), envFile)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(envFile)
		},
	})
	root.AddCommand(tokenCmd(&envFile))
	return root
}

func tokenCmd(envFile *string) *cobra.Command {
	var role string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Sign a development JWT for the given subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			if cfg.AuthMode != config.AuthJWT {
				return errors.New("token signing needs AUTH_MODE=jwt")
			}
			token, err := auth.NewJWTAuthenticator(cfg.JWTSecret).Issue(args[0], utils.Role(role), ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&role, "role", string(utils.RolePatient), "patient, doctor, center or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func runMigrate(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	log.SetLevel(cfg.GommonLevel())

	db, err := database.Init(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Infof("schema migrated on %s", cfg.DBDriver)
	return nil
}

func runServer(ctx context.Context, envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	log.SetLevel(cfg.GommonLevel())

	e, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
