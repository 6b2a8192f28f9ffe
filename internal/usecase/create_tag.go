package usecase

import (
	"context"
	"fmt"

	"github.com/tagworks/autotag/internal/domain"
	"github.com/tagworks/autotag/internal/repository"
)

// CreateTagUseCase renders and creates a tag in the repository.
//
// The existence check is advisory: nothing prevents another process from
// creating the same tag between the check and the create.

type CreateTagUseCase struct {
	GitRepo repository.GitRepository
}

// Execute renders the tag's name and message and creates it. A name
// already present in the repository aborts with TagAlreadyExistsError
// before any mutation.
func (uc *CreateTagUseCase) Execute(
	ctx context.Context,
	tag domain.Tag,
	matcher *domain.TagMatcher,
	messageTemplate string,
) (*domain.Release, error) {
	if err := tag.Validate(); err != nil {
		return nil, err
	}
	name := tag.Name(matcher)
	message := tag.Message(messageTemplate, matcher)
	exists, err := uc.GitRepo.TagExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check tag %s: %w", name, err)
	}
	if exists {
		return nil, &domain.TagAlreadyExistsError{Name: name}
	}
	if err := uc.GitRepo.CreateTag(ctx, name, message); err != nil {
		return nil, fmt.Errorf("failed to create tag %s: %w", name, err)
	}
	return &domain.Release{
		Tag:     tag,
		Name:    name,
		Message: message,
	}, nil
}
