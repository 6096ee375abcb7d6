package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cycletrack/reconciler/internal/dateutil"
	"github.com/cycletrack/reconciler/internal/fertility"
	"github.com/cycletrack/reconciler/internal/predict/calendar"
	"github.com/cycletrack/reconciler/internal/predict/symptom"
	"github.com/cycletrack/reconciler/internal/reconcile"
)

var (
	reconcileCycleStart   string
	reconcileHistoryFile  string
	reconcileObservations string
	reconcileExternalFile string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a fertile-window prediction from a cycle start and optional history",
	RunE:  runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileCycleStart, "cycle-start", "", "current cycle start date, YYYY-MM-DD (required)")
	reconcileCmd.Flags().StringVar(&reconcileHistoryFile, "history", "", "path to a JSON file with an array of historical cycles")
	reconcileCmd.Flags().StringVar(&reconcileObservations, "observations", "", "path to a JSON file with an array of observations")
	reconcileCmd.Flags().StringVar(&reconcileExternalFile, "external-predictions", "", "path to a JSON file with an array of external predictions")
	reconcileCmd.MarkFlagRequired("cycle-start")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	start, err := dateutil.Parse(reconcileCycleStart)
	if err != nil {
		return err
	}

	var cycles []fertility.Cycle
	if err := loadJSONFile(reconcileHistoryFile, &cycles); err != nil {
		return err
	}
	var observations []fertility.Observation
	if err := loadJSONFile(reconcileObservations, &observations); err != nil {
		return err
	}
	var external []fertility.Prediction
	if err := loadJSONFile(reconcileExternalFile, &external); err != nil {
		return err
	}

	predictions := append([]fertility.Prediction{}, external...)
	predictions = append(predictions, calendar.Predict(start, cycles, calendar.DefaultOptions()))
	if p, ok := symptom.Predict(observations, symptom.DefaultOptions()); ok {
		predictions = append(predictions, p)
	}

	result, ok := reconcile.Reconcile(reconcile.Request{
		Predictions: predictions,
		Weights:     fertility.DefaultSourceWeights(),
		Options:     reconcile.DefaultOptions(),
	})
	if !ok {
		return fmt.Errorf("no admissible predictions")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// loadJSONFile unmarshals a JSON file's contents into dest. An empty path
// is a no-op, leaving dest at its zero value.
func loadJSONFile(path string, dest interface{}) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
