package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/compozy/docspub/internal/domain"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// gitRepository is the implementation of the GitRepository interface.
type gitRepository struct {
	repo     *git.Repository
	pushUser string
	token    string
}

// NewGitRepository opens the checkout in the working directory. The token
// authenticates pushes; it is held in memory only and never persisted.
func NewGitRepository(pushUser, token string) (GitRepository, error) {
	repo, err := git.PlainOpen(".")
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return &gitRepository{repo: repo, pushUser: pushUser, token: token}, nil
}

// ConfigureUser sets the git user configuration.
func (r *gitRepository) ConfigureUser(_ context.Context, name, email string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}
	cfg.User.Name = name
	cfg.User.Email = email
	return r.repo.Storer.SetConfig(cfg)
}

// CheckoutBranch switches the working tree to the given branch.
func (r *gitRepository) CheckoutBranch(_ context.Context, name string) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: failed to get worktree: %v", domain.ErrCheckoutFailed, err)
	}
	if err := w.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Force:  false,
	}); err != nil {
		return fmt.Errorf("%w: branch %s: %v", domain.ErrCheckoutFailed, name, err)
	}
	return nil
}

// TagForHead resolves the tag pointing at the current HEAD commit. Both
// lightweight and annotated tags are considered.
func (r *gitRepository) TagForHead(_ context.Context) (string, bool, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to get HEAD: %v", domain.ErrTagResolution, err)
	}
	tagRefs, err := r.repo.Tags()
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to list tags: %v", domain.ErrTagResolution, err)
	}
	var found string
	if err := tagRefs.ForEach(func(ref *plumbing.Reference) error {
		hash, err := r.resolveTagCommit(ref)
		if err != nil {
			return nil // skip tags we cannot resolve
		}
		if hash == head.Hash() {
			found = ref.Name().Short()
			return storer.ErrStop
		}
		return nil
	}); err != nil && err != storer.ErrStop {
		return "", false, fmt.Errorf("%w: failed to iterate tags: %v", domain.ErrTagResolution, err)
	}
	if found == "" {
		return "", false, nil
	}
	return found, true, nil
}

// resolveTagCommit resolves a tag reference to its commit hash.
func (r *gitRepository) resolveTagCommit(ref *plumbing.Reference) (plumbing.Hash, error) {
	// Try as lightweight tag first
	if commit, err := r.repo.CommitObject(ref.Hash()); err == nil {
		return commit.Hash, nil
	}
	// Try as annotated tag
	if tagObj, err := r.repo.TagObject(ref.Hash()); err == nil {
		if commit, err := r.repo.CommitObject(tagObj.Target); err == nil {
			return commit.Hash, nil
		}
	}
	return plumbing.Hash{}, fmt.Errorf("failed to resolve commit for tag %s", ref.Name().Short())
}

// AddAll stages every change in the working tree.
func (r *gitRepository) AddAll(_ context.Context) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// RemoteURL returns the first fetch URL of the named remote.
func (r *gitRepository) RemoteURL(_ context.Context, remote string) (string, error) {
	rem, err := r.repo.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", remote, err)
	}
	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL", remote)
	}
	return urls[0], nil
}

// SetRemoteURL rewrites the named remote to point at the given URL.
func (r *gitRepository) SetRemoteURL(_ context.Context, remote, url string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}
	rc, ok := cfg.Remotes[remote]
	if !ok {
		return fmt.Errorf("remote %s does not exist", remote)
	}
	rc.URLs = []string{url}
	cfg.Remotes[remote] = rc
	return r.repo.Storer.SetConfig(cfg)
}

// CommitAll commits every staged and modified file. Authorship comes from
// the configured user.
func (r *gitRepository) CommitAll(_ context.Context, message string) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: failed to get worktree: %v", domain.ErrCommitFailed, err)
	}
	if _, err := w.Commit(message, &git.CommitOptions{All: true}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCommitFailed, err)
	}
	return nil
}

// PushForce pushes the branch to the remote, overwriting remote history.
func (r *gitRepository) PushForce(ctx context.Context, remote, branch string) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs: []gitconfig.RefSpec{
			gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)),
		},
		Auth:  r.getAuth(),
		Force: true,
	})
	if err == nil || err == git.NoErrAlreadyUpToDate {
		return nil
	}
	if errors.Is(err, transport.ErrAuthenticationRequired) || errors.Is(err, transport.ErrAuthorizationFailed) {
		return fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrPushRejected, err)
}

// CurrentBranch returns the name of the current branch.
func (r *gitRepository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Name().Short(), nil
}

// HeadCommit returns the SHA of the current HEAD commit.
func (r *gitRepository) HeadCommit(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// getAuth returns the basic-auth credential for pushes, or nil when no
// token was injected.
func (r *gitRepository) getAuth() *http.BasicAuth {
	if r.token == "" {
		return nil
	}
	return &http.BasicAuth{
		Username: r.pushUser,
		Password: r.token,
	}
}
