package repository

import (
	"context"
	"errors"
	"fmt"
)

var ErrStatusReportingDisabled = errors.New("github token is required for commit status reporting")

type statusNoopRepository struct {
	owner string
	repo  string
}

// NewStatusNoopRepository returns a reporter used when no token or
// repository slug is configured. Every call fails with a sentinel the
// caller can treat as non-fatal.
func NewStatusNoopRepository(owner, repo string) StatusRepository {
	return &statusNoopRepository{owner: owner, repo: repo}
}

func (r *statusNoopRepository) CreateCommitStatus(_ context.Context, _, _, _ string) error {
	return fmt.Errorf("%w: unable to report status for %s/%s", ErrStatusReportingDisabled, r.owner, r.repo)
}
