package orchestrator

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tagworks/autotag/internal/domain"
)

// Mock for GitRepository - implements all methods from the interface
type mockGitRepository struct{ mock.Mock }

func (m *mockGitRepository) ListTags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if names := args.Get(0); names != nil {
		return names.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGitRepository) TagExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockGitRepository) CreateTag(ctx context.Context, name, message string) error {
	args := m.Called(ctx, name, message)
	return args.Error(0)
}

func (m *mockGitRepository) Fetch(ctx context.Context, remote string) error {
	args := m.Called(ctx, remote)
	return args.Error(0)
}

func (m *mockGitRepository) Pull(ctx context.Context, remote string) error {
	args := m.Called(ctx, remote)
	return args.Error(0)
}

func (m *mockGitRepository) PushTag(ctx context.Context, remote, name string) error {
	args := m.Called(ctx, remote, name)
	return args.Error(0)
}

func (m *mockGitRepository) ConfigValue(ctx context.Context, section, key string) (string, bool, error) {
	args := m.Called(ctx, section, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Mock for GithubRepository
type mockGithubRepository struct{ mock.Mock }

func (m *mockGithubRepository) CreateRelease(ctx context.Context, tag, name, body string) (string, error) {
	args := m.Called(ctx, tag, name, body)
	return args.String(0), args.Error(1)
}

// Mock for Journal
type mockJournal struct{ mock.Mock }

func (m *mockJournal) Append(ctx context.Context, record *domain.RunRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockJournal) List(ctx context.Context) ([]domain.RunRecord, error) {
	args := m.Called(ctx)
	if records := args.Get(0); records != nil {
		return records.([]domain.RunRecord), args.Error(1)
	}
	return nil, args.Error(1)
}
