package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/compozy/docspub/internal/domain"
	"github.com/compozy/docspub/internal/repository"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Step represents a single stage of the publish sequence
type Step struct {
	Name string
	Type domain.StepType
	// Condition gates the step; a false result records it as skipped.
	// Evaluated when the step is reached, so it may depend on the outcome
	// of earlier steps.
	Condition func() bool
	// Retries is the extra-attempt budget for transient failures. Zero
	// means a single attempt.
	Retries uint64
	Execute func(ctx context.Context) error
}

// Pipeline runs steps strictly in order and surfaces the first failure;
// steps after it never run. There is no compensation: everything a
// completed step did stays applied, a failed run is left partial.
type Pipeline struct {
	journal repository.JournalRepository
	run     *domain.PublishRun
	steps   []Step
	log     *zap.SugaredLogger
}

// NewPipeline creates a pipeline with a fresh journal session
func NewPipeline(journal repository.JournalRepository, branch string, log *zap.SugaredLogger) *Pipeline {
	sessionID := uuid.New().String()
	return &Pipeline{
		journal: journal,
		run:     domain.NewPublishRun(sessionID, branch),
		steps:   []Step{},
		log:     log,
	}
}

// AddStep appends a step to the pipeline
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
	p.run.AddStep(step.Type)
}

// Run exposes the journal record of this pipeline
func (p *Pipeline) Run() *domain.PublishRun {
	return p.run
}

// Execute runs the pipeline, journaling progress after every transition
func (p *Pipeline) Execute(ctx context.Context) error {
	p.run.Status = domain.RunStatusRunning
	p.save(ctx)
	for _, step := range p.steps {
		if step.Condition != nil && !step.Condition() {
			p.run.MarkStepStarted(step.Type)
			p.run.MarkStepSkipped(step.Type)
			p.log.Infow("step skipped", "step", step.Name)
			p.save(ctx)
			continue
		}
		p.run.MarkStepStarted(step.Type)
		p.save(ctx)
		p.log.Infow("step started", "step", step.Name)
		if err := p.executeStep(ctx, step); err != nil {
			p.run.MarkStepFailed(step.Type, err)
			p.save(ctx)
			return fmt.Errorf("step '%s' failed: %w", step.Name, err)
		}
		p.run.MarkStepCompleted(step.Type)
		p.save(ctx)
	}
	p.run.Status = domain.RunStatusCompleted
	p.save(ctx)
	return nil
}

// executeStep runs a single step, retrying within its budget
func (p *Pipeline) executeStep(ctx context.Context, step Step) error {
	if step.Retries == 0 {
		return step.Execute(ctx)
	}
	strategy := retry.WithMaxRetries(step.Retries, retry.NewExponential(DefaultRetryDelay))
	return retry.Do(ctx, strategy, func(retryCtx context.Context) error {
		select {
		case <-retryCtx.Done():
			return retryCtx.Err()
		default:
		}
		err := step.Execute(retryCtx)
		if err == nil {
			return nil
		}
		// A bad credential will not get better on the next attempt.
		if errors.Is(err, domain.ErrAuthenticationFailed) {
			return err
		}
		return retry.RetryableError(err)
	})
}

// save persists the journal on a best-effort basis; a journaling failure
// never fails the publish itself.
func (p *Pipeline) save(ctx context.Context) {
	if err := p.journal.Save(ctx, p.run); err != nil {
		p.log.Warnw("failed to save run journal", "session", p.run.SessionID, "error", err)
	}
}
