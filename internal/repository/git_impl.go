package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// gitRepository is the go-git backed implementation of GitRepository.

type gitRepository struct {
	repo *git.Repository
}

// NewGitRepository opens the repository at path.
func NewGitRepository(path string) (GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", path, err)
	}
	return &gitRepository{repo: repo}, nil
}

// NewGitRepositoryFrom wraps an already opened repository. Used by tests
// with in-memory storage.
func NewGitRepositoryFrom(repo *git.Repository) GitRepository {
	return &gitRepository{repo: repo}
}

// FindRepositoryRoot walks from start upward until a directory containing
// .git is found.
func FindRepositoryRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if fi, statErr := os.Stat(filepath.Join(dir, ".git")); statErr == nil && fi.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("neither %s nor any of its parents is a git repository", start)
		}
		dir = parent
	}
}

// ListTags returns the short names of all tag refs.
func (r *gitRepository) ListTags(_ context.Context) ([]string, error) {
	tagRefs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	var names []string
	if err := tagRefs.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return names, nil
}

// TagExists checks if a tag exists.
func (r *gitRepository) TagExists(_ context.Context, name string) (bool, error) {
	_, err := r.repo.Tag(name)
	if err == git.ErrTagNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check tag %s: %w", name, err)
	}
	return true, nil
}

// CreateTag creates an annotated tag at HEAD.
func (r *gitRepository) CreateTag(_ context.Context, name, message string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get HEAD: %w", err)
	}
	_, err = r.repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Message: message,
		Tagger:  r.tagger(),
	})
	if err != nil {
		return fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return nil
}

// Fetch fetches tag refs from the named remote. Already-up-to-date is not
// an error.
func (r *gitRepository) Fetch(ctx context.Context, remote string) error {
	rem, err := r.repo.Remote(remote)
	if err != nil {
		return fmt.Errorf("failed to get remote %s: %w", remote, err)
	}
	err = rem.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remote,
		RefSpecs: []config.RefSpec{
			config.RefSpec("+refs/tags/*:refs/tags/*"),
		},
		Auth: r.getAuth(),
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to fetch from %s: %w", remote, err)
	}
	return nil
}

// Pull pulls the current branch from the named remote.
func (r *gitRepository) Pull(ctx context.Context, remote string) error {
	w, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	err = w.PullContext(ctx, &git.PullOptions{
		RemoteName: remote,
		Auth:       r.getAuth(),
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to pull from %s: %w", remote, err)
	}
	return nil
}

// PushTag pushes a single tag ref to the named remote.
func (r *gitRepository) PushTag(ctx context.Context, remote, name string) error {
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs: []config.RefSpec{
			config.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", name, name)),
		},
		Auth: r.getAuth(),
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to push tag %s to %s: %w", name, remote, err)
	}
	return nil
}

// ConfigValue looks up a key in a section of the repository's git config.
func (r *gitRepository) ConfigValue(_ context.Context, section, key string) (string, bool, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return "", false, fmt.Errorf("failed to get config: %w", err)
	}
	sec := cfg.Raw.Section(section)
	if !sec.HasOption(key) {
		return "", false, nil
	}
	return sec.Option(key), true, nil
}

// tagger builds the tag author signature from the repository's user
// configuration, falling back to a fixed identity.
func (r *gitRepository) tagger() *object.Signature {
	name, email := "autotag", "autotag@localhost"
	if cfg, err := r.repo.Config(); err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}
	return &object.Signature{
		Name:  name,
		Email: email,
		When:  time.Now(),
	}
}

// getAuth returns token auth for remotes that need it (CI environments).
func (r *gitRepository) getAuth() *http.BasicAuth {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("AUTOTAG_GITHUB_TOKEN")
	}
	if token == "" {
		return nil
	}
	return &http.BasicAuth{
		Username: "x-access-token",
		Password: token,
	}
}
