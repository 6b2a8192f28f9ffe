package repository

import "context"

// GithubRepository defines the interface for the optional post-tagging
// GitHub release.

type GithubRepository interface {
	CreateRelease(ctx context.Context, tag, name, body string) (string, error)
}
