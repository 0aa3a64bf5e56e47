package git

import (
	"context"

	"github.com/go-git/go-git/v5"
)

// Client defines the Git operations the wiki mirror needs
type Client interface {
	PlainCloneContext(ctx context.Context, path string, isBare bool, o *git.CloneOptions) (*git.Repository, error)
	PlainOpen(path string) (*git.Repository, error)
	Pull(ctx context.Context, repo *git.Repository, o *git.PullOptions) error
}
