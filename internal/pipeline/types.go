package pipeline

import (
	"time"
)

// Step identifiers
const (
	StepIDMerge    = "merge"
	StepIDFeatures = "features"
	StepIDXG       = "xg"
	StepIDTrain    = "train"
)

// Step names
const (
	StepNameMerge    = "Match Data Merge"
	StepNameFeatures = "Feature Engineering"
	StepNameXG       = "Expected Goals Merge"
	StepNameTrain    = "Model Training"
)

// Default timeouts
const (
	DefaultStepTimeout     = 30 * time.Minute
	DefaultMergeTimeout    = 15 * time.Minute
	DefaultFeaturesTimeout = 5 * time.Minute
	DefaultXGTimeout       = 5 * time.Minute
	DefaultTrainTimeout    = 60 * time.Minute
)

// Status is the overall run status
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Request selects what a run executes
type Request struct {
	ID string `json:"id"`
	// Steps limits the run to these step IDs, kept in registration order.
	// Empty runs every registered step.
	Steps []string `json:"steps,omitempty"`
}

// Response summarises a finished run
type Response struct {
	ID       string                `json:"id"`
	Status   Status                `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Outputs  map[string]string     `json:"outputs,omitempty"`
	Error    string                `json:"error,omitempty"`
}
