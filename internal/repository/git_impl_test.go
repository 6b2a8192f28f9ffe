package repository

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSignature = &object.Signature{
	Name:  "test",
	Email: "test@example.com",
	When:  time.Now(),
}

func newTestRepo(t *testing.T) *git.Repository {
	t.Helper()
	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)
	return repo
}

func commitFile(t *testing.T, repo *git.Repository, name, content string) plumbing.Hash {
	t.Helper()
	workTree, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, util.WriteFile(workTree.Filesystem, name, []byte(content), 0o644))
	_, err = workTree.Add(name)
	require.NoError(t, err)
	hash, err := workTree.Commit("add "+name, &git.CommitOptions{Author: testSignature})
	require.NoError(t, err)
	return hash
}

func lightweightTag(t *testing.T, repo *git.Repository, name string, hash plumbing.Hash) {
	t.Helper()
	_, err := repo.CreateTag(name, hash, nil)
	require.NoError(t, err)
}

func TestGitRepository_ListTags(t *testing.T) {
	t.Run("Should return the short names of all tags", func(t *testing.T) {
		repo := newTestRepo(t)
		hash := commitFile(t, repo, "a.txt", "a")
		lightweightTag(t, repo, "0.1.0", hash)
		lightweightTag(t, repo, "0.2.0", hash)
		gitRepo := NewGitRepositoryFrom(repo)

		names, err := gitRepo.ListTags(context.Background())

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"0.1.0", "0.2.0"}, names)
	})
	t.Run("Should return no names for a repository without tags", func(t *testing.T) {
		repo := newTestRepo(t)
		commitFile(t, repo, "a.txt", "a")
		gitRepo := NewGitRepositoryFrom(repo)

		names, err := gitRepo.ListTags(context.Background())

		require.NoError(t, err)
		assert.Empty(t, names)
	})
}

func TestGitRepository_TagExists(t *testing.T) {
	t.Run("Should report an existing tag", func(t *testing.T) {
		repo := newTestRepo(t)
		hash := commitFile(t, repo, "a.txt", "a")
		lightweightTag(t, repo, "1.0.0", hash)
		gitRepo := NewGitRepositoryFrom(repo)

		exists, err := gitRepo.TagExists(context.Background(), "1.0.0")

		require.NoError(t, err)
		assert.True(t, exists)
	})
	t.Run("Should report a missing tag", func(t *testing.T) {
		repo := newTestRepo(t)
		commitFile(t, repo, "a.txt", "a")
		gitRepo := NewGitRepositoryFrom(repo)

		exists, err := gitRepo.TagExists(context.Background(), "1.0.0")

		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGitRepository_CreateTag(t *testing.T) {
	t.Run("Should create an annotated tag at HEAD", func(t *testing.T) {
		repo := newTestRepo(t)
		hash := commitFile(t, repo, "a.txt", "a")
		gitRepo := NewGitRepositoryFrom(repo)

		err := gitRepo.CreateTag(context.Background(), "0.1.0", "Release 0.1.0.")

		require.NoError(t, err)
		ref, err := repo.Tag("0.1.0")
		require.NoError(t, err)
		tagObj, err := repo.TagObject(ref.Hash())
		require.NoError(t, err)
		assert.Equal(t, "Release 0.1.0.\n", tagObj.Message)
		assert.Equal(t, hash, tagObj.Target)
	})
	t.Run("Should fail when the tag already exists", func(t *testing.T) {
		repo := newTestRepo(t)
		commitFile(t, repo, "a.txt", "a")
		gitRepo := NewGitRepositoryFrom(repo)
		require.NoError(t, gitRepo.CreateTag(context.Background(), "0.1.0", "Release 0.1.0."))

		err := gitRepo.CreateTag(context.Background(), "0.1.0", "Release 0.1.0.")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create tag 0.1.0")
	})
	t.Run("Should fail on a repository without commits", func(t *testing.T) {
		repo := newTestRepo(t)
		gitRepo := NewGitRepositoryFrom(repo)

		err := gitRepo.CreateTag(context.Background(), "0.1.0", "Release 0.1.0.")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get HEAD")
	})
}

func TestGitRepository_Fetch(t *testing.T) {
	t.Run("Should fail when the remote does not exist", func(t *testing.T) {
		repo := newTestRepo(t)
		commitFile(t, repo, "a.txt", "a")
		gitRepo := NewGitRepositoryFrom(repo)

		err := gitRepo.Fetch(context.Background(), "origin")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get remote origin")
	})
}

func TestGitRepository_ConfigValue(t *testing.T) {
	t.Run("Should return a configured value", func(t *testing.T) {
		repo := newTestRepo(t)
		cfg, err := repo.Config()
		require.NoError(t, err)
		cfg.Raw.Section("autotag").SetOption("step", "major")
		require.NoError(t, repo.SetConfig(cfg))
		gitRepo := NewGitRepositoryFrom(repo)

		value, ok, err := gitRepo.ConfigValue(context.Background(), "autotag", "step")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "major", value)
	})
	t.Run("Should report a missing key", func(t *testing.T) {
		repo := newTestRepo(t)
		gitRepo := NewGitRepositoryFrom(repo)

		_, ok, err := gitRepo.ConfigValue(context.Background(), "autotag", "step")

		require.NoError(t, err)
		assert.False(t, ok)
	})
}
