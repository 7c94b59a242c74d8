package repository

import "context"

// GitRepository defines the interface for the version-control operations the
// publisher needs. Directory removal, creation and recursive copying are
// filesystem concerns and live on FileSystemRepository instead.
type GitRepository interface {
	// ConfigureUser sets committer identity on the local config; the later
	// commit takes its authorship from it.
	ConfigureUser(ctx context.Context, name, email string) error
	CheckoutBranch(ctx context.Context, name string) error
	// TagForHead resolves the tag pointing at HEAD. The second return value
	// is false when HEAD carries no tag; that outcome is not an error.
	TagForHead(ctx context.Context) (string, bool, error)
	AddAll(ctx context.Context) error
	RemoteURL(ctx context.Context, remote string) (string, error)
	SetRemoteURL(ctx context.Context, remote, url string) error
	CommitAll(ctx context.Context, message string) error
	PushForce(ctx context.Context, remote, branch string) error
	CurrentBranch(ctx context.Context) (string, error)
	HeadCommit(ctx context.Context) (string, error)
}
