package store

import (
	"time"

	"github.com/evotsp/evotsp/internal/config"
)

// RunResult is the terminal output of an optimization run, serialized to
// result.json under the run directory. Only the final tour and trace are
// persisted; intermediate optimizer state (population, bandit statistics) is
// deliberately not saved.
type RunResult struct {
	// RunID is the unique identifier for this run
	RunID string `json:"runId"`

	// InstancePath is the problem instance the run was started from
	InstancePath string `json:"instancePath"`

	// Config is the configuration snapshot the run used
	Config config.Config `json:"config"`

	// BestTour is the best route found, as 1-based city identifiers
	BestTour []int `json:"bestTour"`

	// BestFitness is the closed-tour length of BestTour
	BestFitness float64 `json:"bestFitness"`

	// InitialFitness is the best fitness of the initial random population
	InitialFitness float64 `json:"initialFitness"`

	// Generations is the generation budget that was executed
	Generations int `json:"generations"`

	// Timestamp records when the run finished
	Timestamp time.Time `json:"timestamp"`
}

// RunInfo is run metadata without the tour, for efficient listing.
type RunInfo struct {
	RunID        string    `json:"runId"`
	InstancePath string    `json:"instancePath"`
	Mode         string    `json:"mode"`
	Cities       int       `json:"cities"`
	BestFitness  float64   `json:"bestFitness"`
	Generations  int       `json:"generations"`
	Timestamp    time.Time `json:"timestamp"`
}

// ToInfo converts a full RunResult to its metadata.
func (r *RunResult) ToInfo() RunInfo {
	return RunInfo{
		RunID:        r.RunID,
		InstancePath: r.InstancePath,
		Mode:         r.Config.Mode,
		Cities:       len(r.BestTour),
		BestFitness:  r.BestFitness,
		Generations:  r.Generations,
		Timestamp:    r.Timestamp,
	}
}

// Validate checks that the result has valid data before persisting.
func (r *RunResult) Validate() error {
	if r.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if r.InstancePath == "" {
		return &ValidationError{Field: "InstancePath", Reason: "cannot be empty"}
	}
	if len(r.BestTour) == 0 {
		return &ValidationError{Field: "BestTour", Reason: "cannot be empty"}
	}
	if r.BestFitness < 0 {
		return &ValidationError{Field: "BestFitness", Reason: "cannot be negative"}
	}
	if r.Generations <= 0 {
		return &ValidationError{Field: "Generations", Reason: "must be positive"}
	}
	if r.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	return nil
}

// ValidationError represents a run-result validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// ErrNotFound is returned when a requested run does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing run error.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	if e.RunID != "" {
		return "run not found: " + e.RunID
	}
	return "run not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
