package workflow

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/randalmurphal/focusflow/bucket"
	"github.com/randalmurphal/focusflow/correction"
	"github.com/randalmurphal/focusflow/generate"
)

// =============================================================================
// Embeddable State Components
// =============================================================================

// StructureState tracks structure generation
type StructureState struct {
	Name                 string    `json:"name,omitempty"`
	Steps                []string  `json:"steps,omitempty"`
	StructureGeneratedAt time.Time `json:"structureGeneratedAt,omitempty"`
}

// ClassifyState tracks classification
type ClassifyState struct {
	Classification *generate.Classification `json:"classification,omitempty"`
	ClassifiedAt   time.Time                `json:"classifiedAt,omitempty"`
}

// EstimateState tracks per-step baseline estimation
type EstimateState struct {
	StepMinutes     []int     `json:"stepMinutes,omitempty"`
	BaselineMinutes float64   `json:"baselineMinutes,omitempty"`
	EstimatedAt     time.Time `json:"estimatedAt,omitempty"`
}

// ResultState tracks the corrected display range
type ResultState struct {
	Low        int                   `json:"low,omitempty"`
	High       int                   `json:"high,omitempty"`
	Confidence correction.Confidence `json:"confidence,omitempty"`
	Source     string                `json:"source,omitempty"`
	Factor     float64               `json:"factor,omitempty"`
	Attributes *bucket.Attributes    `json:"attributes,omitempty"`
	ComputedAt time.Time             `json:"computedAt,omitempty"`
}

// MetricsState tracks execution metrics
type MetricsState struct {
	StartTime     time.Time     `json:"startTime"`
	TotalDuration time.Duration `json:"totalDuration"`
	Degraded      bool          `json:"degraded,omitempty"`
}

// =============================================================================
// State - Full Workflow State
// =============================================================================

// State is the complete state for estimation workflows
type State struct {
	// Identification
	RunID  string `json:"runId"`
	FlowID string `json:"flowId"`

	// Input
	TaskText      string  `json:"taskText"`
	ActualMinutes float64 `json:"actualMinutes,omitempty"`

	// Embedded state components
	StructureState
	ClassifyState
	EstimateState
	ResultState
	MetricsState

	// Error tracking
	Error string `json:"error,omitempty"`
}

// NewState creates a new estimation workflow state
func NewState(flowID string) State {
	return State{
		RunID:  generateRunID(flowID),
		FlowID: flowID,
		MetricsState: MetricsState{
			StartTime: time.Now(),
		},
	}
}

// WithRunID sets a custom run ID
func (s State) WithRunID(runID string) State {
	s.RunID = runID
	return s
}

// WithTaskText sets the task text input
func (s State) WithTaskText(text string) State {
	s.TaskText = text
	return s
}

// WithSteps pre-populates steps, skipping structure generation
func (s State) WithSteps(steps []string) State {
	s.Steps = append([]string(nil), steps...)
	return s
}

// FinalizeDuration sets total duration from start time
func (s *State) FinalizeDuration() {
	s.TotalDuration = time.Since(s.StartTime)
}

// SetError sets the error state
func (s *State) SetError(err error) {
	if err != nil {
		s.Error = err.Error()
	}
}

// HasError returns true if state has an error
func (s State) HasError() bool {
	return s.Error != ""
}

// =============================================================================
// State Validation
// =============================================================================

// StateRequirement defines a state prerequisite
type StateRequirement string

const (
	RequireTaskText       StateRequirement = "task-text"
	RequireSteps          StateRequirement = "steps"
	RequireClassification StateRequirement = "classification"
	RequireBaseline       StateRequirement = "baseline"
	RequireActual         StateRequirement = "actual"
)

// Validate checks if state has required fields
func (s State) Validate(requirements ...StateRequirement) error {
	for _, req := range requirements {
		switch req {
		case RequireTaskText:
			if s.TaskText == "" {
				return fmt.Errorf("task text required")
			}
		case RequireSteps:
			if len(s.Steps) == 0 {
				return fmt.Errorf("steps required")
			}
		case RequireClassification:
			if s.Classification == nil {
				return fmt.Errorf("classification required")
			}
		case RequireBaseline:
			if s.BaselineMinutes <= 0 {
				return fmt.Errorf("baseline minutes required")
			}
		case RequireActual:
			if s.ActualMinutes <= 0 {
				return fmt.Errorf("actual minutes required")
			}
		default:
			return fmt.Errorf("unknown requirement: %s", req)
		}
	}
	return nil
}

// =============================================================================
// Helper Functions
// =============================================================================

// generateRunID creates a unique run ID
func generateRunID(flowID string) string {
	timestamp := time.Now().Format("2006-01-02")
	suffix := randomSuffix(4)
	return fmt.Sprintf("%s-%s-%s", timestamp, flowID, suffix)
}

// randomSuffix generates a random hex suffix
func randomSuffix(bytes int) string {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based suffix on entropy failure
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// =============================================================================
// State Summary
// =============================================================================

// Summary returns a human-readable summary of the state
func (s State) Summary() string {
	var status string
	switch {
	case s.Error != "":
		status = "failed"
	case !s.ComputedAt.IsZero():
		status = "estimated"
	case s.BaselineMinutes > 0:
		status = "baselined"
	case s.Classification != nil:
		status = "classified"
	case len(s.Steps) > 0:
		status = "structured"
	default:
		status = "pending"
	}

	if status == "estimated" {
		return fmt.Sprintf("Run %s [%s]: %s, %d-%d min (%s)",
			s.RunID, status, s.FlowID, s.Low, s.High, s.Confidence)
	}
	return fmt.Sprintf("Run %s [%s]: %s", s.RunID, status, s.FlowID)
}
