package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/compozy/docspub/internal/domain"
	"github.com/compozy/docspub/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestPipeline() (*Pipeline, *mockJournalRepository) {
	journal := new(mockJournalRepository)
	journal.On("Save", mock.Anything, mock.Anything).Return(nil)
	return NewPipeline(journal, "gh-pages", logger.Nop()), journal
}

func TestPipeline_Execute(t *testing.T) {
	t.Run("Should run steps in order", func(t *testing.T) {
		pipeline, _ := newTestPipeline()
		var order []string
		pipeline.AddStep(Step{
			Name: "first",
			Type: domain.StepTypeCheckout,
			Execute: func(context.Context) error {
				order = append(order, "first")
				return nil
			},
		})
		pipeline.AddStep(Step{
			Name: "second",
			Type: domain.StepTypeCommit,
			Execute: func(context.Context) error {
				order = append(order, "second")
				return nil
			},
		})
		require.NoError(t, pipeline.Execute(context.Background()))
		assert.Equal(t, []string{"first", "second"}, order)
		assert.Equal(t, domain.RunStatusCompleted, pipeline.Run().Status)
	})
	t.Run("Should stop at the first failure and not run later steps", func(t *testing.T) {
		pipeline, _ := newTestPipeline()
		laterRan := false
		pipeline.AddStep(Step{
			Name: "broken",
			Type: domain.StepTypeCheckout,
			Execute: func(context.Context) error {
				return errors.New("no such branch")
			},
		})
		pipeline.AddStep(Step{
			Name: "later",
			Type: domain.StepTypePush,
			Execute: func(context.Context) error {
				laterRan = true
				return nil
			},
		})
		err := pipeline.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "step 'broken' failed")
		assert.False(t, laterRan)
		assert.Equal(t, domain.RunStatusFailed, pipeline.Run().Status)
	})
	t.Run("Should skip steps whose condition is false", func(t *testing.T) {
		pipeline, _ := newTestPipeline()
		ran := false
		pipeline.AddStep(Step{
			Name:      "gated",
			Type:      domain.StepTypePromoteRoot,
			Condition: func() bool { return false },
			Execute: func(context.Context) error {
				ran = true
				return nil
			},
		})
		require.NoError(t, pipeline.Execute(context.Background()))
		assert.False(t, ran)
		assert.Equal(t, domain.StepStatusSkipped, pipeline.Run().Steps[0].Status)
	})
	t.Run("Should retry a step within its budget", func(t *testing.T) {
		pipeline, _ := newTestPipeline()
		attempts := 0
		pipeline.AddStep(Step{
			Name:    "flaky push",
			Type:    domain.StepTypePush,
			Retries: 2,
			Execute: func(context.Context) error {
				attempts++
				if attempts < 2 {
					return errors.New("connection reset")
				}
				return nil
			},
		})
		require.NoError(t, pipeline.Execute(context.Background()))
		assert.Equal(t, 2, attempts)
	})
	t.Run("Should not retry authentication failures", func(t *testing.T) {
		pipeline, _ := newTestPipeline()
		attempts := 0
		pipeline.AddStep(Step{
			Name:    "push",
			Type:    domain.StepTypePush,
			Retries: 3,
			Execute: func(context.Context) error {
				attempts++
				return domain.ErrAuthenticationFailed
			},
		})
		err := pipeline.Execute(context.Background())
		require.ErrorIs(t, err, domain.ErrAuthenticationFailed)
		assert.Equal(t, 1, attempts)
	})
	t.Run("Should keep publishing when the journal cannot be saved", func(t *testing.T) {
		journal := new(mockJournalRepository)
		journal.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))
		pipeline := NewPipeline(journal, "gh-pages", logger.Nop())
		pipeline.AddStep(Step{
			Name:    "work",
			Type:    domain.StepTypeCommit,
			Execute: func(context.Context) error { return nil },
		})
		require.NoError(t, pipeline.Execute(context.Background()))
	})
}
