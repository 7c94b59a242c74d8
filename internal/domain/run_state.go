package domain

import (
	"time"
)

// RunStatus represents the overall status of a publish run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StepStatus represents the status of an individual publish step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusRunning   StepStatus = "running"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepType identifies a step of the publish sequence
type StepType string

const (
	StepTypeConfigureUser StepType = "configure_user"
	StepTypeCheckout      StepType = "checkout_branch"
	StepTypeResetStaging  StepType = "reset_staging"
	StepTypeResolveTag    StepType = "resolve_tag"
	StepTypePromoteRoot   StepType = "promote_root"
	StepTypeSyncStaging   StepType = "sync_staging"
	StepTypeStageChanges  StepType = "stage_changes"
	StepTypeSetRemote     StepType = "set_remote"
	StepTypeCommit        StepType = "commit"
	StepTypePush          StepType = "push"
)

// PublishRun records the progress of a single publish invocation. It is
// observability only: there is no resume and no rollback, a failed run is
// left partially applied.
type PublishRun struct {
	SessionID string       `json:"session_id"`
	StartedAt time.Time    `json:"started_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Branch    string       `json:"branch"`
	TagState  TagState     `json:"tag_state,omitempty"`
	TagName   string       `json:"tag_name,omitempty"`
	CIRef     string       `json:"ci_ref,omitempty"`
	Steps     []StepRecord `json:"steps"`
	Status    RunStatus    `json:"status"`
	Error     string       `json:"error,omitempty"`
}

// StepRecord represents a single step in the run
type StepRecord struct {
	ID          string     `json:"id"`
	Type        StepType   `json:"type"`
	Status      StepStatus `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// NewPublishRun creates a new run record
func NewPublishRun(sessionID, branch string) *PublishRun {
	now := time.Now()
	return &PublishRun{
		SessionID: sessionID,
		StartedAt: now,
		UpdatedAt: now,
		Branch:    branch,
		Steps:     []StepRecord{},
		Status:    RunStatusPending,
	}
}

// AddStep appends a pending step record
func (pr *PublishRun) AddStep(stepType StepType) *StepRecord {
	step := StepRecord{
		ID:        generateStepID(stepType),
		Type:      stepType,
		Status:    StepStatusPending,
		StartedAt: time.Now(),
	}
	pr.Steps = append(pr.Steps, step)
	pr.UpdatedAt = time.Now()
	return &pr.Steps[len(pr.Steps)-1]
}

// SetRelease records the outcome of tag resolution on the run
func (pr *PublishRun) SetRelease(rel *Release) {
	pr.TagState = rel.State
	pr.TagName = rel.TagName
	pr.CIRef = rel.CIRef
	pr.UpdatedAt = time.Now()
}

// MarkStepStarted marks the first pending step of the given type as running
func (pr *PublishRun) MarkStepStarted(stepType StepType) {
	for i := range pr.Steps {
		if pr.Steps[i].Type == stepType && pr.Steps[i].Status == StepStatusPending {
			pr.Steps[i].Status = StepStatusRunning
			pr.Steps[i].StartedAt = time.Now()
			pr.UpdatedAt = time.Now()
			break
		}
	}
}

// MarkStepCompleted marks the running step of the given type as completed
func (pr *PublishRun) MarkStepCompleted(stepType StepType) {
	pr.finishStep(stepType, StepStatusCompleted, nil)
}

// MarkStepSkipped marks the running step of the given type as skipped
func (pr *PublishRun) MarkStepSkipped(stepType StepType) {
	pr.finishStep(stepType, StepStatusSkipped, nil)
}

// MarkStepFailed marks the running step of the given type as failed and
// fails the whole run
func (pr *PublishRun) MarkStepFailed(stepType StepType, err error) {
	pr.finishStep(stepType, StepStatusFailed, err)
	pr.Status = RunStatusFailed
	pr.Error = err.Error()
}

func (pr *PublishRun) finishStep(stepType StepType, status StepStatus, err error) {
	now := time.Now()
	for i := range pr.Steps {
		if pr.Steps[i].Type == stepType && pr.Steps[i].Status == StepStatusRunning {
			pr.Steps[i].Status = status
			pr.Steps[i].CompletedAt = &now
			if err != nil {
				pr.Steps[i].Error = err.Error()
			}
			pr.UpdatedAt = now
			break
		}
	}
}

// generateStepID creates a unique ID for a step record
func generateStepID(stepType StepType) string {
	return string(stepType) + "_" + time.Now().Format("20060102150405")
}
