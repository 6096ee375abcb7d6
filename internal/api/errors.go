package api

import "errors"

var (
	errMethodNotAllowed        = errors.New("method not allowed")
	errNoAdmissiblePredictions = errors.New("no admissible predictions: supply historical cycles, observations, or external predictions")
)
