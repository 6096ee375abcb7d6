package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/cycletrack/reconciler/internal/fertility"
	"github.com/cycletrack/reconciler/internal/quality"
)

var (
	qualityCycleStart   string
	qualityHistoryFile  string
	qualityObservations string
	qualityExternalFile string
	qualityInsights     bool
)

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Assess input quality, or (with --insights) grade historical regularity and drift",
	RunE:  runQuality,
}

func init() {
	qualityCmd.Flags().StringVar(&qualityCycleStart, "cycle-start", "", "current cycle start date, YYYY-MM-DD")
	qualityCmd.Flags().StringVar(&qualityHistoryFile, "history", "", "path to a JSON file with an array of historical cycles")
	qualityCmd.Flags().StringVar(&qualityObservations, "observations", "", "path to a JSON file with an array of observations")
	qualityCmd.Flags().StringVar(&qualityExternalFile, "external-predictions", "", "path to a JSON file with an array of external predictions")
	qualityCmd.Flags().BoolVar(&qualityInsights, "insights", false, "emit data-quality insights (regularity, drift, anomalies) instead of a pipeline-input assessment")
}

func runQuality(cmd *cobra.Command, args []string) error {
	var cycles []fertility.Cycle
	if err := loadJSONFile(qualityHistoryFile, &cycles); err != nil {
		return err
	}
	var observations []fertility.Observation
	if err := loadJSONFile(qualityObservations, &observations); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if qualityInsights {
		return enc.Encode(quality.ComputeInsights(cycles, observations))
	}

	var external []fertility.Prediction
	if err := loadJSONFile(qualityExternalFile, &external); err != nil {
		return err
	}

	assessment := quality.Assess(quality.Request{
		CurrentCycleStart:   qualityCycleStart,
		HistoricalCycles:    cycles,
		Observations:        observations,
		ExternalPredictions: external,
	})
	return enc.Encode(assessment)
}
