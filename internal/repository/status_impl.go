package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/compozy/docspub/internal/config"
	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// statusContext is the context label publish statuses appear under on the
// commit.
const statusContext = "docs/publish"

// statusRepository is the implementation of the StatusRepository interface.
type statusRepository struct {
	client *github.Client
	owner  string
	repo   string
}

// NewStatusRepository creates a new StatusRepository with validation.
func NewStatusRepository(token, owner, repo string) (StatusRepository, error) {
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	if err := config.ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	return &statusRepository{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// CreateCommitStatus reports a publish outcome on the given commit.
func (r *statusRepository) CreateCommitStatus(ctx context.Context, sha, state, description string) error {
	_, _, err := r.client.Repositories.CreateStatus(ctx, r.owner, r.repo, sha, &github.RepoStatus{
		State:       github.Ptr(state),
		Description: github.Ptr(description),
		Context:     github.Ptr(statusContext),
	})
	if err != nil {
		return fmt.Errorf("failed to create commit status: %w", err)
	}
	return nil
}
