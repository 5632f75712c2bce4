package main

import (
	"fmt"

	"PairLink/internal/di"
	"PairLink/pkg/config"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the optional Kafka worker",
	Long: `Run the HTTP API. When kafka.enabled is set the evaluation worker
consumes the request topic and publishes reports.

Examples:
  pairlink serve --config config/config.yaml
  KAFKA_BROKERS=localhost:9092 pairlink serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}

	// Run application (blocks until signal)
	return app.Run()
}
