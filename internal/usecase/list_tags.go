package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/tagworks/autotag/internal/domain"
	"github.com/tagworks/autotag/internal/repository"
)

// ListTagsUseCase parses the repository's tags through the compiled tag
// template.

type ListTagsUseCase struct {
	GitRepo repository.GitRepository
}

// ListTagsOptions controls parsing and ordering of the result.
type ListTagsOptions struct {
	// Sort orders the result ascending per Tag.Compare.
	Sort bool
	// Strict aborts on the first tag name that does not match the
	// template. When false, unmatched tags are skipped.
	Strict bool
}

// Execute lists tag names from the VCS and parses each one. Parse failures
// either skip the tag or abort the whole operation, per options.
func (uc *ListTagsUseCase) Execute(
	ctx context.Context,
	matcher *domain.TagMatcher,
	opts ListTagsOptions,
) ([]domain.Tag, error) {
	names, err := uc.GitRepo.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	tags := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		tag, err := domain.ParseTag(name, matcher)
		if err != nil {
			if opts.Strict {
				return nil, err
			}
			continue
		}
		tags = append(tags, tag)
	}
	if opts.Sort {
		slices.SortFunc(tags, func(a, b domain.Tag) int {
			return a.Compare(b)
		})
	}
	return tags, nil
}
