package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eventkit/eventkit/internal/config"
	"github.com/eventkit/eventkit/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the recommendation, explanation, export and bot endpoints.`,
	RunE:  runServe,
}

var (
	servePort int
	serveCard bool
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8010, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveCard, "card", false, "Include adaptive cards in recommendation responses by default")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	settings := config.LoadSettings()
	if manifestPath != "" {
		settings.ManifestPath = manifestPath
	}

	srv, err := server.New(server.Config{
		Port:        servePort,
		DefaultCard: serveCard,
	}, settings)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
