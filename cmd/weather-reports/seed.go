package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-reports/internal/store"
	"github.com/i474232898/weather-reports/internal/weather"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample dataset and print its inventory and city summaries",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	mem := store.NewMemoryStore()
	if err := mem.Seed(); err != nil {
		return err
	}

	svc := weather.NewService(mem.Repositories())
	summaries, err := svc.GetAllCitySummaries()
	if err != nil {
		return fmt.Errorf("summarising seed data: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Counts    store.Counts      `json:"counts"`
		Summaries weather.Summaries `json:"summaries"`
	}{mem.Counts(), summaries})
}
