package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/tagworks/autotag/internal/config"
	"github.com/tagworks/autotag/internal/domain"
	"github.com/tagworks/autotag/internal/repository"
	"github.com/tagworks/autotag/internal/usecase"
)

// RunOptions contains per-invocation switches for a tagging run.
type RunOptions struct {
	DryRun   bool
	CIOutput bool
	// Pull performs a full worktree pull before tagging instead of the
	// tag fetch that pull_before_tagging does.
	Pull bool
}

// Tagger orchestrates a full tagging run: sync with the remote, find the
// latest tag, increment it, create the new tag and optionally push it and
// publish a GitHub release.
type Tagger struct {
	cfg        *config.Config
	gitRepo    repository.GitRepository
	githubRepo repository.GithubRepository
	journal    repository.Journal
	log        *zap.Logger

	listTags *usecase.ListTagsUseCase
	next     *usecase.NextVersionUseCase
	create   *usecase.CreateTagUseCase
}

// NewTagger creates a new Tagger. githubRepo may be nil when release
// creation is not configured; journal may be nil to disable run recording.
func NewTagger(
	cfg *config.Config,
	gitRepo repository.GitRepository,
	githubRepo repository.GithubRepository,
	journal repository.Journal,
	log *zap.Logger,
) *Tagger {
	listTags := &usecase.ListTagsUseCase{GitRepo: gitRepo}
	return &Tagger{
		cfg:        cfg,
		gitRepo:    gitRepo,
		githubRepo: githubRepo,
		journal:    journal,
		log:        log,
		listTags:   listTags,
		next:       &usecase.NextVersionUseCase{ListTags: listTags},
		create:     &usecase.CreateTagUseCase{GitRepo: gitRepo},
	}
}

// Tags returns the repository's parsed tags in ascending order.
func (t *Tagger) Tags(ctx context.Context) ([]domain.Tag, error) {
	matcher, err := domain.CompileTemplate(t.cfg.TagnameTemplate)
	if err != nil {
		return nil, err
	}
	return t.listTags.Execute(ctx, matcher, usecase.ListTagsOptions{
		Sort:   true,
		Strict: t.cfg.StrictParse,
	})
}

// Plan computes the release a run would create, without mutating anything.
func (t *Tagger) Plan(ctx context.Context) (*domain.Release, error) {
	matcher, step, minimum, err := t.resolve()
	if err != nil {
		return nil, err
	}
	latest, next, err := t.next.Execute(ctx, matcher, usecase.NextVersionOptions{
		Step:    step,
		Strict:  t.cfg.StrictParse,
		Minimum: minimum,
	})
	if err != nil {
		return nil, err
	}
	return &domain.Release{
		Previous: latest,
		Tag:      next,
		Name:     next.Name(matcher),
		Message:  next.Message(t.cfg.TagmessageTemplate, matcher),
	}, nil
}

// Execute runs the complete tagging workflow.
func (t *Tagger) Execute(ctx context.Context, opts RunOptions) (*domain.Release, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultRunTimeout)
	defer cancel()
	if err := ValidateRemoteName(t.cfg.RemoteName); err != nil {
		return nil, err
	}
	sessionID := uuid.New().String()
	log := t.log.With(zap.String("session_id", sessionID))
	startedAt := time.Now()

	switch {
	case opts.Pull:
		log.Info("pulling before tagging", zap.String("remote", t.cfg.RemoteName))
		if err := t.withRetry(ctx, func(ctx context.Context) error {
			return t.gitRepo.Pull(ctx, t.cfg.RemoteName)
		}); err != nil {
			return nil, fmt.Errorf("failed to pull from remote: %w", err)
		}
	case t.cfg.PullBeforeTagging:
		log.Info("fetching tags before tagging", zap.String("remote", t.cfg.RemoteName))
		if err := t.withRetry(ctx, func(ctx context.Context) error {
			return t.gitRepo.Fetch(ctx, t.cfg.RemoteName)
		}); err != nil {
			return nil, fmt.Errorf("failed to fetch from remote: %w", err)
		}
	}

	release, err := t.Plan(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("computed next version",
		zap.String("latest", release.Previous.String()),
		zap.String("next", release.Name),
	)
	t.printCIOutput(opts.CIOutput, "latest_tag=%s\n", release.Previous.String())
	t.printCIOutput(opts.CIOutput, "next_tag=%s\n", release.Name)

	if opts.DryRun {
		log.Info("dry run, not creating tag", zap.String("tag", release.Name))
		return release, nil
	}

	matcher, _, _, err := t.resolve()
	if err != nil {
		return nil, err
	}
	created, err := t.create.Execute(ctx, release.Tag, matcher, t.cfg.TagmessageTemplate)
	if err != nil {
		return nil, err
	}
	created.Previous = release.Previous
	log.Info("created tag", zap.String("tag", created.Name))

	if t.cfg.PushAfterTagging {
		if err := t.withRetry(ctx, func(ctx context.Context) error {
			return t.gitRepo.PushTag(ctx, t.cfg.RemoteName, created.Name)
		}); err != nil {
			return nil, fmt.Errorf("failed to push tag %s: %w", created.Name, err)
		}
		created.Pushed = true
		log.Info("pushed tag", zap.String("tag", created.Name), zap.String("remote", t.cfg.RemoteName))
	}

	if t.cfg.CreateRelease && t.githubRepo != nil {
		url, err := t.createRelease(ctx, created)
		if err != nil {
			return nil, err
		}
		created.ReleaseURL = url
		log.Info("created GitHub release", zap.String("url", url))
	}

	if t.journal != nil {
		if err := t.record(ctx, sessionID, startedAt, created); err != nil {
			// The tag exists at this point; a journal failure must not
			// fail the run.
			log.Warn("failed to record tagging run", zap.Error(err))
		}
	}
	t.printCIOutput(opts.CIOutput, "created_tag=%s\n", created.Name)
	return created, nil
}

func (t *Tagger) createRelease(ctx context.Context, release *domain.Release) (string, error) {
	var url string
	err := t.withRetry(ctx, func(ctx context.Context) error {
		var err error
		url, err = t.githubRepo.CreateRelease(ctx, release.Name, release.Name, release.Message)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to create release for %s: %w", release.Name, err)
	}
	return url, nil
}

func (t *Tagger) record(
	ctx context.Context,
	sessionID string,
	startedAt time.Time,
	release *domain.Release,
) error {
	previous := ""
	if release.Previous.Compare(domain.ZeroTag()) != 0 {
		previous = release.Previous.String()
	}
	return t.journal.Append(ctx, &domain.RunRecord{
		SessionID:   sessionID,
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
		PreviousTag: previous,
		CreatedTag:  release.Name,
		Message:     release.Message,
		Remote:      t.cfg.RemoteName,
		Pushed:      release.Pushed,
		ReleaseURL:  release.ReleaseURL,
	})
}

func (t *Tagger) resolve() (*domain.TagMatcher, domain.Step, *domain.Tag, error) {
	matcher, err := domain.CompileTemplate(t.cfg.TagnameTemplate)
	if err != nil {
		return nil, "", nil, err
	}
	step, err := t.cfg.StepValue()
	if err != nil {
		return nil, "", nil, err
	}
	minimum, err := t.cfg.MinimumTag()
	if err != nil {
		return nil, "", nil, err
	}
	return matcher, step, minimum, nil
}

// withRetry wraps a remote call with exponential backoff. Domain errors
// are never retried; they would fail the same way every time.
func (t *Tagger) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(
		ctx,
		retry.WithMaxRetries(DefaultRetryCount, retry.NewExponential(DefaultRetryDelay)),
		func(ctx context.Context) error {
			err := fn(ctx)
			if err == nil {
				return nil
			}
			var exists *domain.TagAlreadyExistsError
			if errors.As(err, &exists) {
				return err
			}
			return retry.RetryableError(err)
		},
	)
}

func (t *Tagger) printCIOutput(enabled bool, format string, args ...any) {
	if enabled {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}
