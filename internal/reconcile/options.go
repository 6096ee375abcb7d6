// Package reconcile implements the reconciler: fusing any number of
// fertile-window predictions, internal or imported, into one unified
// window with a calibrated confidence, diagnostics, and a human-readable
// explanation.
//
// Every exported function here is pure: no mutable state, no I/O, no
// goroutines. This mirrors a common separation between pure decision
// functions and
// the stateful agent loops that call them — the reconciler is the decision
// function, callers own any concurrency.
package reconcile

import "github.com/cycletrack/reconciler/internal/fertility"

// Options tunes the reconciler.
type Options struct {
	MinConfidenceThreshold float64 // default 0.3
	DisagreementPenalty    float64 // default 0.15
	MinSources             int     // default 1
}

// DefaultOptions returns the default tuning.
func DefaultOptions() Options {
	return Options{
		MinConfidenceThreshold: 0.3,
		DisagreementPenalty:    0.15,
		MinSources:             1,
	}
}

// Request bundles a reconciler invocation's inputs.
type Request struct {
	Predictions []fertility.Prediction
	Weights     fertility.SourceWeights
	Options     Options
}
