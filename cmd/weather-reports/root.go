package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "weather-reports",
	Short: "REST service for per-city weather reports",
	Long: `weather-reports serves weather reports per city from an in-memory store.
Reports can be posted through the API or ingested periodically from upstream
weather providers; auto-created cities are geocoded in the background.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
