package repository

import "context"

// Commit status states accepted by the GitHub API.
const (
	StatusStateSuccess = "success"
	StatusStateFailure = "failure"
)

// StatusRepository defines the interface for reporting publish outcomes as
// GitHub commit statuses.
type StatusRepository interface {
	CreateCommitStatus(ctx context.Context, sha, state, description string) error
}
