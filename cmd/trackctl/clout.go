package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"trackboard/internal/analytics"
)

var cloutLimit int

var cloutCmd = &cobra.Command{
	Use:   "clout",
	Short: "Prints the most-improved tracks by cumulative clout",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printClout(cloutLimit)
	},
}

func init() {
	rootCmd.AddCommand(cloutCmd)
	cloutCmd.Flags().IntVar(&cloutLimit, "limit", 10, "Number of tracks to show")
}

func printClout(limit int) error {
	enriched, err := loadEnriched("")
	if err != nil {
		return err
	}
	ranked := analytics.TopByClout(enriched, limit)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"#", "Track", "Artist", "Clout", "Latest Daily"})
	for i, t := range ranked {
		latest := 0.0
		if n := len(t.Metrics.CloutHistory); n > 0 {
			latest = t.Metrics.CloutHistory[n-1].DailyClout
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			t.TrackName,
			t.ArtistName,
			fmt.Sprintf("%.1f", t.Metrics.CumulativeClout),
			fmt.Sprintf("%.1f", latest),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
