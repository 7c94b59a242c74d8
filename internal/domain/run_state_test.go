package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRun_StepLifecycle(t *testing.T) {
	t.Run("Should track a step from pending to completed", func(t *testing.T) {
		run := NewPublishRun("session-1", "gh-pages")
		run.AddStep(StepTypeCheckout)
		assert.Equal(t, RunStatusPending, run.Status)
		run.MarkStepStarted(StepTypeCheckout)
		assert.Equal(t, StepStatusRunning, run.Steps[0].Status)
		run.MarkStepCompleted(StepTypeCheckout)
		assert.Equal(t, StepStatusCompleted, run.Steps[0].Status)
		require.NotNil(t, run.Steps[0].CompletedAt)
	})
	t.Run("Should fail the run when a step fails", func(t *testing.T) {
		run := NewPublishRun("session-2", "gh-pages")
		run.AddStep(StepTypePush)
		run.MarkStepStarted(StepTypePush)
		run.MarkStepFailed(StepTypePush, errors.New("authentication required"))
		assert.Equal(t, RunStatusFailed, run.Status)
		assert.Equal(t, StepStatusFailed, run.Steps[0].Status)
		assert.Equal(t, "authentication required", run.Steps[0].Error)
		assert.Equal(t, "authentication required", run.Error)
	})
	t.Run("Should record skipped steps without failing the run", func(t *testing.T) {
		run := NewPublishRun("session-3", "gh-pages")
		run.AddStep(StepTypePromoteRoot)
		run.MarkStepStarted(StepTypePromoteRoot)
		run.MarkStepSkipped(StepTypePromoteRoot)
		assert.Equal(t, StepStatusSkipped, run.Steps[0].Status)
		assert.NotEqual(t, RunStatusFailed, run.Status)
	})
	t.Run("Should only touch the first pending step of a type", func(t *testing.T) {
		run := NewPublishRun("session-4", "gh-pages")
		run.AddStep(StepTypeCommit)
		run.AddStep(StepTypeCommit)
		run.MarkStepStarted(StepTypeCommit)
		assert.Equal(t, StepStatusRunning, run.Steps[0].Status)
		assert.Equal(t, StepStatusPending, run.Steps[1].Status)
	})
}

func TestPublishRun_SetRelease(t *testing.T) {
	t.Run("Should copy release metadata onto the run", func(t *testing.T) {
		run := NewPublishRun("session-5", "gh-pages")
		run.SetRelease(&Release{State: TagStateTagged, TagName: "v2.0.0", CIRef: "build-42"})
		assert.Equal(t, TagStateTagged, run.TagState)
		assert.Equal(t, "v2.0.0", run.TagName)
		assert.Equal(t, "build-42", run.CIRef)
	})
}
