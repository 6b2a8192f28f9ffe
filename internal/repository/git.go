package repository

import "context"

// GitRepository defines the VCS capability surface the tagging core
// consumes: list/check/create tags, sync with a remote, and read the
// repository's git config.

type GitRepository interface {
	ListTags(ctx context.Context) ([]string, error)
	TagExists(ctx context.Context, name string) (bool, error)
	CreateTag(ctx context.Context, name, message string) error
	Fetch(ctx context.Context, remote string) error
	Pull(ctx context.Context, remote string) error
	PushTag(ctx context.Context, remote, name string) error
	ConfigValue(ctx context.Context, section, key string) (string, bool, error)
}
