package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cliLogger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "fertility-cli",
		Short: "Run the fertile-window reconciliation pipeline from the command line",
		Long: `fertility-cli runs the same calendar, symptom, and reconciliation
pipeline the fertility-api service exposes over HTTP, for local or
offline use against flat files instead of a running server.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cliLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		},
	}
)

func main() {
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(importCSVCmd)
	rootCmd.AddCommand(qualityCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
