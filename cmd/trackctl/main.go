// main.go - Operator control tool for trackboard
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trackboard/internal/config"
	"trackboard/internal/database"
	"trackboard/internal/logger"
	"trackboard/internal/observations"
)

var rootCmd = &cobra.Command{
	Use:   "trackctl",
	Short: "Operator tool for the trackboard streaming-stats service",
	Long: `trackctl imports raw play-count observations into the trackboard
database and prints aggregated views (top tracks, clout leaderboard)
without going through the HTTP API.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase connects to the configured database and runs migrations so
// trackctl works against a fresh file too.
func openDatabase() (*database.Manager, error) {
	cfg := config.GetConfig()
	manager := database.NewManager(cfg, logger.New(cfg))
	if err := manager.Connect(); err != nil {
		return nil, err
	}
	if err := manager.Migrate(&observations.Observation{}, &observations.IngestBatch{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return manager, nil
}
