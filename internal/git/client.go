package git

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
)

// RealClient implements Client using go-git
type RealClient struct{}

// NewClient creates a new RealClient
func NewClient() *RealClient {
	return &RealClient{}
}

// PlainCloneContext calls git.PlainCloneContext
func (c *RealClient) PlainCloneContext(ctx context.Context, path string, isBare bool, o *git.CloneOptions) (*git.Repository, error) {
	return git.PlainCloneContext(ctx, path, isBare, o)
}

// PlainOpen calls git.PlainOpen
func (c *RealClient) PlainOpen(path string) (*git.Repository, error) {
	return git.PlainOpen(path)
}

// Pull fast-forwards the worktree of repo. An up-to-date worktree is not an error.
func (c *RealClient) Pull(ctx context.Context, repo *git.Repository, o *git.PullOptions) error {
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	if err := wt.PullContext(ctx, o); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}
	return nil
}
