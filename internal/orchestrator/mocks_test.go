package orchestrator

import (
	"context"

	"github.com/compozy/docspub/internal/domain"
	"github.com/stretchr/testify/mock"
)

// Mock for GitRepository - implements ALL methods from the GitRepository interface
type mockGitRepository struct{ mock.Mock }

func (m *mockGitRepository) ConfigureUser(ctx context.Context, name, email string) error {
	args := m.Called(ctx, name, email)
	return args.Error(0)
}
func (m *mockGitRepository) CheckoutBranch(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
func (m *mockGitRepository) TagForHead(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}
func (m *mockGitRepository) AddAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *mockGitRepository) RemoteURL(ctx context.Context, remote string) (string, error) {
	args := m.Called(ctx, remote)
	return args.String(0), args.Error(1)
}
func (m *mockGitRepository) SetRemoteURL(ctx context.Context, remote, url string) error {
	args := m.Called(ctx, remote, url)
	return args.Error(0)
}
func (m *mockGitRepository) CommitAll(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}
func (m *mockGitRepository) PushForce(ctx context.Context, remote, branch string) error {
	args := m.Called(ctx, remote, branch)
	return args.Error(0)
}
func (m *mockGitRepository) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *mockGitRepository) HeadCommit(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// Mock for StatusRepository
type mockStatusRepository struct{ mock.Mock }

func (m *mockStatusRepository) CreateCommitStatus(ctx context.Context, sha, state, description string) error {
	args := m.Called(ctx, sha, state, description)
	return args.Error(0)
}

// Mock for JournalRepository
type mockJournalRepository struct{ mock.Mock }

func (m *mockJournalRepository) Save(ctx context.Context, run *domain.PublishRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}
func (m *mockJournalRepository) Load(ctx context.Context, sessionID string) (*domain.PublishRun, error) {
	args := m.Called(ctx, sessionID)
	if run := args.Get(0); run != nil {
		return run.(*domain.PublishRun), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockJournalRepository) LoadLatest(ctx context.Context) (*domain.PublishRun, error) {
	args := m.Called(ctx)
	if run := args.Get(0); run != nil {
		return run.(*domain.PublishRun), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockJournalRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}
func (m *mockJournalRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
