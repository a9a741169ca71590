package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"trackboard/internal/config"
	"trackboard/internal/logger"
	"trackboard/internal/observations"
	"trackboard/internal/tracks"
)

var importSource string

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Imports raw observations from a YAML or JSON dump",
	Long: `Imports a file of raw play-count observations into the database.
The format is chosen by extension: .yaml/.yml or .json. Re-importing the
same file is harmless; same-day rows keep the larger play count.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importSource, "source", "trackctl-import", "Source label recorded with the batch")
}

func runImport(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var batch []tracks.RawObservation
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &batch); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &batch); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}

	if len(batch) == 0 {
		return fmt.Errorf("no observations found in %s", path)
	}

	manager, err := openDatabase()
	if err != nil {
		return err
	}
	defer manager.Close()

	result, err := observations.CollectBatch(manager.GetConnection(), logger.New(config.GetConfig()), observations.CollectBatchInput{
		Source:       importSource,
		Observations: batch,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d observations (%d dropped) as batch %s\n",
		result.Accepted, result.Dropped, result.BatchID)
	return nil
}
