package pipeline

import (
	"sync"
	"time"

	"leagueforecast/internal/features"
	"leagueforecast/internal/forecast"
	"leagueforecast/internal/matches"
)

// State carries one run's step states and the data passed between steps
type State struct {
	mu sync.RWMutex

	ID        string
	Status    Status
	StartTime time.Time
	EndTime   *time.Time
	Steps     map[string]*StepState
	Error     error

	// Data handed from one step to the next. A nil field means the step
	// that produces it did not run, and the consumer reads its file instead.
	Combined   *matches.Table
	Features   []features.TeamSeason
	Complete   []features.TeamSeason
	Result     *forecast.Result
	Evaluation *forecast.Evaluation
	RunID      string

	// Outputs maps an artefact name to the file written for it
	Outputs map[string]string
}

// NewState creates a new run state
func NewState(id string) *State {
	return &State{
		ID:        id,
		Status:    StatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Outputs:   make(map[string]string),
	}
}

// Start marks the run as running
func (s *State) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = StatusRunning
	s.StartTime = time.Now()
}

// MarkCompleted marks the run as completed
func (s *State) MarkCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StatusCompleted
}

// Fail marks the run as failed
func (s *State) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StatusFailed
	s.Error = err
}

// Cancel marks the run as cancelled
func (s *State) Cancel(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = StatusCancelled
	s.Error = err
}

// GetStep returns the state of a specific step
func (s *State) GetStep(id string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Steps[id]
}

// SetStep registers the state of a specific step
func (s *State) SetStep(id string, state *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Steps[id] = state
}

// AddOutput records a written artefact
func (s *State) AddOutput(name, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Outputs[name] = path
}

// Output returns the path recorded for an artefact
func (s *State) Output(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	path, ok := s.Outputs[name]
	return path, ok
}

// Duration returns the duration of the run
func (s *State) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}

// HasFailures returns true if any step has failed
func (s *State) HasFailures() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, step := range s.Steps {
		if step.CurrentStatus() == StepStatusFailed {
			return true
		}
	}
	return false
}

// Response snapshots the run for callers
func (s *State) Response() *Response {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := &Response{
		ID:      s.ID,
		Status:  s.Status,
		Steps:   s.Steps,
		Outputs: make(map[string]string, len(s.Outputs)),
	}
	if s.EndTime != nil {
		resp.Duration = s.EndTime.Sub(s.StartTime)
	}
	for k, v := range s.Outputs {
		resp.Outputs[k] = v
	}
	if s.Error != nil {
		resp.Error = s.Error.Error()
	}
	return resp
}
