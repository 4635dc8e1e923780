package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dizid/unplugged-cv/internal/config"
	"github.com/dizid/unplugged-cv/internal/db"
	"github.com/dizid/unplugged-cv/internal/llm"
	"github.com/dizid/unplugged-cv/internal/logging"
	"github.com/dizid/unplugged-cv/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the CV generation, job analysis and application tracking endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT env var)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	logger := logging.New(cfg.LogLevel)

	client, err := llm.NewGeminiClient(cmd.Context(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()

	deps := server.Deps{LLM: client, Logger: logger}
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		deps.Store = database
	} else {
		logger.Warn("no DATABASE_URL set, running without accounts or persistence")
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
