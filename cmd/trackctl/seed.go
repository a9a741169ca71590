package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trackboard/internal/config"
	"trackboard/internal/logger"
	"trackboard/internal/seeder"
)

var (
	seedTracks int
	seedDays   int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fills the database with generated demo tracks",
	Long: `Generates a demo catalog with daily cumulative play counts and
ingests it through the normal collection path, so a fresh install has
charts, growth figures and a clout leaderboard to look at.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed()
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().IntVar(&seedTracks, "tracks", 10, "Number of demo tracks to generate")
	seedCmd.Flags().IntVar(&seedDays, "days", 30, "Days of history per track")
}

func runSeed() error {
	manager, err := openDatabase()
	if err != nil {
		return err
	}
	defer manager.Close()

	s := seeder.NewSeeder(manager.GetConnection(), logger.New(config.GetConfig()), seedTracks, seedDays)
	if err := s.Run(); err != nil {
		return err
	}

	fmt.Printf("Seeded %d tracks with %d days of history\n", seedTracks, seedDays)
	return nil
}
