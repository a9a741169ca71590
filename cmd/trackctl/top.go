package main

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"trackboard/internal/analytics"
	"trackboard/internal/config"
	"trackboard/internal/observations"
	"trackboard/internal/tracks"
)

var (
	topLimit int
	topSort  string
	topDir   string
	topAlbum string
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Prints the top tracks with their derived metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTop(topAlbum, topSort, topDir, topLimit)
	},
}

func init() {
	rootCmd.AddCommand(topCmd)
	topCmd.Flags().IntVar(&topLimit, "limit", 20, "Number of tracks to show")
	topCmd.Flags().StringVar(&topSort, "sort", string(analytics.SortByPlaycount), "Sort key: firstAdded, lastStreamed, position, playcount")
	topCmd.Flags().StringVar(&topDir, "dir", string(analytics.Descending), "Sort direction: asc or desc")
	topCmd.Flags().StringVar(&topAlbum, "album", "", "Restrict to one album ID")
}

func printTop(albumID, sortKey, dir string, limit int) error {
	key := analytics.SortKey(sortKey)
	if !analytics.ValidSortKey(key) {
		return fmt.Errorf("unknown sort key: %s", sortKey)
	}

	enriched, err := loadEnriched(albumID)
	if err != nil {
		return err
	}
	page := analytics.SortAndPaginate(enriched, key, analytics.Direction(dir), 0, limit)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"#", "Track", "Artist", "Streams", "Growth %", "Revenue $"})
	for i, t := range page {
		growth := "n/a"
		if t.Metrics.HasWindowData {
			growth = fmt.Sprintf("%.1f", t.Metrics.GrowthPercent)
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			t.TrackName,
			t.ArtistName,
			fmt.Sprintf("%d", t.LatestStreams()),
			growth,
			fmt.Sprintf("%.2f", t.Metrics.RevenueEstimate),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Printf("%d tracks total\n", len(enriched))
	return nil
}

// loadEnriched runs the aggregation pipeline over the stored batch.
func loadEnriched(albumID string) ([]analytics.EnrichedTrack, error) {
	manager, err := openDatabase()
	if err != nil {
		return nil, err
	}
	defer manager.Close()

	cfg := config.GetConfig()
	pipeline := analytics.NewPipeline(tracks.DefaultResolver{}, cfg.Engine())
	source := observations.StoreSource{DB: manager.GetConnection()}
	return pipeline.RunFromSource(source, albumID, time.Now())
}
