package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/compozy/docspub/internal/config"
	"github.com/compozy/docspub/internal/domain"
	"github.com/compozy/docspub/internal/logger"
	"github.com/compozy/docspub/internal/repository"
	"github.com/compozy/docspub/internal/usecase"
	"go.uber.org/zap"
)

// PublishConfig contains per-invocation options for the publish workflow.
type PublishConfig struct {
	DryRun     bool // Stop before remote rewrite, commit and push
	CIOutput   bool // Output in CI-friendly key=value format
	SkipStatus bool // Do not report a GitHub commit status
}

// PublishOrchestrator orchestrates the entire docs publish workflow.
type PublishOrchestrator struct {
	cfg        *config.Config
	gitRepo    repository.GitRepository
	fsRepo     repository.FileSystemRepository
	statusRepo repository.StatusRepository
	journal    repository.JournalRepository
	log        *zap.SugaredLogger
}

// NewPublishOrchestrator creates a new publish orchestrator.
func NewPublishOrchestrator(
	cfg *config.Config,
	gitRepo repository.GitRepository,
	fsRepo repository.FileSystemRepository,
	statusRepo repository.StatusRepository,
	log *zap.SugaredLogger,
) *PublishOrchestrator {
	journal := repository.NewJournalRepository(fsRepo, StateDirName)
	return &PublishOrchestrator{
		cfg:        cfg,
		gitRepo:    gitRepo,
		fsRepo:     fsRepo,
		statusRepo: statusRepo,
		journal:    journal,
		log:        log,
	}
}

// Execute runs the complete publish workflow.
func (o *PublishOrchestrator) Execute(ctx context.Context, runCfg PublishConfig) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultRunTimeout)
	defer cancel()
	runLock, err := NewRunLock(StateDirName)
	if err != nil {
		return err
	}
	if err := runLock.Acquire(ctx); err != nil {
		return err
	}
	defer func() {
		if releaseErr := runLock.Release(); releaseErr != nil {
			o.log.Warnw("failed to release run lock", "error", releaseErr)
		}
	}()
	if branch, branchErr := o.gitRepo.CurrentBranch(ctx); branchErr == nil {
		o.log.Infow("starting publish", "from_branch", branch, "target_branch", o.cfg.Branch)
	}
	pipeline := NewPipeline(o.journal, o.cfg.Branch, o.log)
	var release *domain.Release
	o.addWorkingTreeSteps(pipeline, &release)
	if !runCfg.DryRun {
		o.addPublishSteps(pipeline, &release)
	}
	runErr := pipeline.Execute(ctx)
	o.printCIOutput(runCfg.CIOutput, "session_id=%s\n", pipeline.Run().SessionID)
	if release != nil {
		o.printCIOutput(runCfg.CIOutput, "tag_state=%s\n", release.State)
		o.printCIOutput(runCfg.CIOutput, "tag=%s\n", release.TagName)
	}
	if runErr != nil {
		o.reportStatus(ctx, runCfg, repository.StatusStateFailure, "documentation publish failed")
		return runErr
	}
	if runCfg.DryRun {
		o.printStatus(runCfg.CIOutput, "🛈 Dry-run complete – working tree prepared, no remote rewrite, commit or push.")
		return nil
	}
	o.reportStatus(ctx, runCfg, repository.StatusStateSuccess, "documentation published to "+o.cfg.Branch)
	o.printStatus(runCfg.CIOutput, fmt.Sprintf("✅ Documentation published to %s (%s)", o.cfg.Branch, release.Label()))
	return nil
}

// addWorkingTreeSteps adds the steps that only touch the local checkout.
func (o *PublishOrchestrator) addWorkingTreeSteps(pipeline *Pipeline, release **domain.Release) {
	pipeline.AddStep(Step{
		Name: "configure committer identity",
		Type: domain.StepTypeConfigureUser,
		Execute: func(ctx context.Context) error {
			return o.gitRepo.ConfigureUser(ctx, o.cfg.CommitterName, o.cfg.CommitterEmail)
		},
	})
	pipeline.AddStep(Step{
		Name: "checkout hosting branch",
		Type: domain.StepTypeCheckout,
		Execute: func(ctx context.Context) error {
			return o.gitRepo.CheckoutBranch(ctx, o.cfg.Branch)
		},
	})
	pipeline.AddStep(Step{
		Name: "reset staging directory",
		Type: domain.StepTypeResetStaging,
		Execute: func(_ context.Context) error {
			uc := &usecase.ResetStagingUseCase{Fs: o.fsRepo}
			return uc.Execute(o.cfg.StagingDir)
		},
	})
	pipeline.AddStep(Step{
		Name: "resolve release tag",
		Type: domain.StepTypeResolveTag,
		Execute: func(ctx context.Context) error {
			uc := &usecase.ResolveReleaseUseCase{GitRepo: o.gitRepo}
			rel, err := uc.Execute(ctx, o.cfg.CIRef)
			if err != nil {
				if !errors.Is(err, domain.ErrTagResolution) {
					return err
				}
				// The sentinel path: publish as untagged rather than abort.
				o.log.Warnw("tag resolution failed, publishing as untagged", "error", err)
			}
			*release = rel
			pipeline.Run().SetRelease(rel)
			o.log.Infow("release resolved", "state", rel.State, "tag", rel.TagName)
			return nil
		},
	})
	pipeline.AddStep(Step{
		Name: "promote build output to repository root",
		Type: domain.StepTypePromoteRoot,
		Condition: func() bool {
			return (*release).Tagged()
		},
		Execute: func(_ context.Context) error {
			uc := &usecase.PromoteRootUseCase{Fs: o.fsRepo}
			return uc.Execute(o.cfg.BuildDir)
		},
	})
	pipeline.AddStep(Step{
		Name: "sync build output into staging",
		Type: domain.StepTypeSyncStaging,
		Execute: func(_ context.Context) error {
			uc := &usecase.SyncStagingUseCase{Fs: o.fsRepo}
			return uc.Execute(o.cfg.BuildDir, o.cfg.StagingDir)
		},
	})
	pipeline.AddStep(Step{
		Name: "stage changes",
		Type: domain.StepTypeStageChanges,
		Execute: func(ctx context.Context) error {
			return o.gitRepo.AddAll(ctx)
		},
	})
}

// addPublishSteps adds the steps that touch the remote.
func (o *PublishOrchestrator) addPublishSteps(pipeline *Pipeline, release **domain.Release) {
	pipeline.AddStep(Step{
		Name: "rewrite remote with credential",
		Type: domain.StepTypeSetRemote,
		Execute: func(ctx context.Context) error {
			return o.rewriteRemote(ctx)
		},
	})
	pipeline.AddStep(Step{
		Name: "commit staged changes",
		Type: domain.StepTypeCommit,
		Execute: func(ctx context.Context) error {
			return o.gitRepo.CommitAll(ctx, (*release).CommitMessage())
		},
	})
	pipeline.AddStep(Step{
		Name:    "force-push hosting branch",
		Type:    domain.StepTypePush,
		Retries: PushRetryCount,
		Execute: func(ctx context.Context) error {
			return o.gitRepo.PushForce(ctx, o.cfg.Remote, o.cfg.Branch)
		},
	})
}

// rewriteRemote points the configured remote at the token-authenticated
// https URL. Only the redacted form ever reaches the log.
func (o *PublishOrchestrator) rewriteRemote(ctx context.Context) error {
	current, err := o.gitRepo.RemoteURL(ctx, o.cfg.Remote)
	if err != nil {
		return err
	}
	authed, err := authenticatedRemoteURL(current, o.cfg)
	if err != nil {
		return err
	}
	o.log.Infow("rewriting remote", "remote", o.cfg.Remote, "url", logger.RedactURL(authed))
	return o.gitRepo.SetRemoteURL(ctx, o.cfg.Remote, authed)
}

// authenticatedRemoteURL builds the https push URL with the credential
// embedded. When the repository slug is configured the URL is constructed
// outright, otherwise the existing remote URL is rewritten in place.
func authenticatedRemoteURL(current string, cfg *config.Config) (string, error) {
	if cfg.GithubOwner != "" && cfg.GithubRepo != "" {
		return fmt.Sprintf("https://%s:%s@github.com/%s/%s.git",
			cfg.PushUser, cfg.Token, cfg.GithubOwner, cfg.GithubRepo), nil
	}
	u, err := url.Parse(current)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("remote URL %q cannot be rewritten to https", logger.RedactURL(current))
	}
	u.Scheme = "https"
	u.User = url.UserPassword(cfg.PushUser, cfg.Token)
	return u.String(), nil
}

// reportStatus posts the publish outcome as a GitHub commit status on a
// best-effort basis; reporting failures never fail the run.
func (o *PublishOrchestrator) reportStatus(ctx context.Context, runCfg PublishConfig, state, description string) {
	if runCfg.SkipStatus || runCfg.DryRun || o.statusRepo == nil {
		return
	}
	sha, err := o.gitRepo.HeadCommit(ctx)
	if err != nil {
		o.log.Warnw("failed to resolve HEAD for status report", "error", err)
		return
	}
	if err := o.statusRepo.CreateCommitStatus(ctx, sha, state, description); err != nil {
		if errors.Is(err, repository.ErrStatusReportingDisabled) {
			o.log.Debugw("commit status reporting disabled", "reason", err)
			return
		}
		o.log.Warnw("failed to report commit status", "error", err)
	}
}

// printCIOutput prints output in CI format if enabled
func (o *PublishOrchestrator) printCIOutput(ciOutput bool, format string, args ...any) {
	if ciOutput {
		fmt.Printf(format, args...)
	}
}

// printStatus prints status messages when not in CI mode
func (o *PublishOrchestrator) printStatus(ciOutput bool, message string) {
	if !ciOutput {
		fmt.Println(message)
	}
}
