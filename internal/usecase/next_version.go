package usecase

import (
	"context"
	"fmt"

	"github.com/tagworks/autotag/internal/domain"
)

// NextVersionUseCase determines the version the next tag should carry.

type NextVersionUseCase struct {
	ListTags *ListTagsUseCase
}

// NextVersionOptions carries the increment step, the parse policy and an
// optional version floor.
type NextVersionOptions struct {
	Step   domain.Step
	Strict bool
	// Minimum is the minimum_version floor. The result never falls below
	// the floor truncated to the step's granularity.
	Minimum *domain.Tag
}

// Execute finds the greatest existing tag (the all-absent tag when the
// repository has none) and increments it per the step. With a floor F and
// step s the result is max(increment(latest, s), truncate(F, s)), where
// truncate zeroes every component less significant than s.
func (uc *NextVersionUseCase) Execute(
	ctx context.Context,
	matcher *domain.TagMatcher,
	opts NextVersionOptions,
) (latest, next domain.Tag, err error) {
	tags, err := uc.ListTags.Execute(ctx, matcher, ListTagsOptions{Strict: opts.Strict})
	if err != nil {
		return domain.Tag{}, domain.Tag{}, err
	}
	latest = domain.ZeroTag()
	for _, tag := range tags {
		if tag.Compare(latest) > 0 {
			latest = tag
		}
	}
	next, err = latest.Incremented(opts.Step)
	if err != nil {
		return domain.Tag{}, domain.Tag{}, fmt.Errorf("failed to increment version: %w", err)
	}
	if opts.Minimum != nil {
		floor, err := truncateToStep(*opts.Minimum, opts.Step)
		if err != nil {
			return domain.Tag{}, domain.Tag{}, err
		}
		if floor.Compare(next) > 0 {
			next = floor
		}
	}
	return latest, next, nil
}

func truncateToStep(floor domain.Tag, step domain.Step) (domain.Tag, error) {
	d := floor.VersionDict()
	switch step {
	case domain.StepMajor:
		return domain.NewFullTag(d.Major, 0, 0), nil
	case domain.StepMinor:
		return domain.NewFullTag(d.Major, d.Minor, 0), nil
	case domain.StepPatch:
		return domain.NewFullTag(d.Major, d.Minor, d.Patch), nil
	default:
		return domain.Tag{}, &domain.InvalidStepError{Step: string(step)}
	}
}
