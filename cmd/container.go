package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tagworks/autotag/internal/config"
	"github.com/tagworks/autotag/internal/orchestrator"
	"github.com/tagworks/autotag/internal/repository"
)

// container holds all the dependencies for the application.

type container struct {
	cfg     *config.Config
	log     *zap.Logger
	gitRepo repository.GitRepository
	ghRepo  repository.GithubRepository
	journal repository.Journal
}

// newContainer builds the dependency graph for one command invocation.
// Flag values beat git config, which beats config file and environment.
func newContainer(cmd *cobra.Command, overrides *config.Overrides) (*container, error) {
	log, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	root, err := repositoryRoot(cmd)
	if err != nil {
		return nil, err
	}
	gitRepo, err := repository.NewGitRepository(root)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(cmd.Context(), gitRepo, overrides)
	if err != nil {
		return nil, err
	}

	// The GitHub client is only needed when release creation is on.
	var ghRepo repository.GithubRepository
	if cfg.CreateRelease {
		ghRepo, err = repository.NewGithubRepository(cfg.GithubToken, cfg.GithubOwner, cfg.GithubRepo)
		if err != nil {
			return nil, err
		}
	}

	journal := repository.NewFileJournal(afero.NewOsFs(), filepath.Join(root, ".git", "autotag"))
	return &container{
		cfg:     cfg,
		log:     log,
		gitRepo: gitRepo,
		ghRepo:  ghRepo,
		journal: journal,
	}, nil
}

// tagger wires the orchestrator from the container's dependencies.
func (c *container) tagger() *orchestrator.Tagger {
	return orchestrator.NewTagger(c.cfg, c.gitRepo, c.ghRepo, c.journal, c.log)
}

func (c *container) close() {
	_ = c.log.Sync()
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// repositoryRoot resolves the repository path: the --repo flag when given,
// otherwise walk upward from the working directory.
func repositoryRoot(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("repo")
	if err != nil {
		return "", err
	}
	if path != "" {
		if _, err := repository.FindRepositoryRoot(path); err != nil {
			return "", fmt.Errorf("path %s does not point to a git repository: %w", path, err)
		}
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return repository.FindRepositoryRoot(cwd)
}

// InitCommands registers all commands on the root command.
func InitCommands() error {
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVersionCmd())
	return nil
}
