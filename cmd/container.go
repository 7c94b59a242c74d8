package cmd

import (
	"github.com/compozy/docspub/internal/config"
	"github.com/compozy/docspub/internal/logger"
	"github.com/compozy/docspub/internal/orchestrator"
	"github.com/compozy/docspub/internal/repository"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.
type container struct {
	cfg *config.Config
	log *zap.SugaredLogger

	fsRepo     repository.FileSystemRepository
	gitRepo    repository.GitRepository
	statusRepo repository.StatusRepository
}

// newContainer creates a new container with all the dependencies.
func newContainer(verbose bool) (*container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(verbose)
	if err != nil {
		return nil, err
	}

	fsRepo := repository.FileSystemRepository(afero.NewOsFs())
	gitRepo, err := repository.NewGitRepository(cfg.PushUser, cfg.Token)
	if err != nil {
		return nil, err
	}

	// Status reporting is optional: without a token or repository slug the
	// noop reporter stands in and the orchestrator logs instead of failing.
	var statusRepo repository.StatusRepository
	if cfg.Token != "" && cfg.GithubOwner != "" && cfg.GithubRepo != "" {
		statusRepo, err = repository.NewStatusRepository(cfg.Token, cfg.GithubOwner, cfg.GithubRepo)
		if err != nil {
			return nil, err
		}
	} else {
		statusRepo = repository.NewStatusNoopRepository(cfg.GithubOwner, cfg.GithubRepo)
	}

	return &container{
		cfg:        cfg,
		log:        log,
		fsRepo:     fsRepo,
		gitRepo:    gitRepo,
		statusRepo: statusRepo,
	}, nil
}

// InitCommands initializes all commands with their dependencies
func InitCommands(verbose bool) error {
	c, err := newContainer(verbose)
	if err != nil {
		return err
	}
	publishOrch := orchestrator.NewPublishOrchestrator(c.cfg, c.gitRepo, c.fsRepo, c.statusRepo, c.log)
	rootCmd.AddCommand(NewPublishCmd(publishOrch))
	rootCmd.AddCommand(newVersionCmd())
	return nil
}
