package github

import (
	"context"

	gogithub "github.com/google/go-github/v75/github"
	"golang.org/x/sync/errgroup"

	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/quantmind-br/repotxt/internal/repourl"
)

// ListReferences lists branch and tag names concurrently. Wikis always
// resolve to a single master branch without a request. Branches come back in
// API order; callers prioritize them when disambiguating.
func (c *Client) ListReferences(ctx context.Context, ref domain.RepoRef) (*domain.References, error) {
	if ref.IsWiki {
		return repourl.WikiReferences(), nil
	}

	var branches, tags []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		branches, err = c.matchingRefs(gctx, ref, "heads/")
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = c.matchingRefs(gctx, ref, "tags/")
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, domain.NewReferenceFetchError(ref.Owner, ref.Repo, err)
	}

	c.logger.Debug().
		Str("repo", ref.String()).
		Int("branches", len(branches)).
		Int("tags", len(tags)).
		Msg("Listed references")

	return &domain.References{Branches: branches, Tags: tags}, nil
}

func (c *Client) matchingRefs(ctx context.Context, ref domain.RepoRef, prefix string) ([]string, error) {
	opts := &gogithub.ReferenceListOptions{
		Ref:         prefix,
		ListOptions: gogithub.ListOptions{PerPage: 100},
	}

	names := []string{}
	for {
		refs, resp, err := c.gh.Git.ListMatchingRefs(ctx, ref.Owner, ref.Repo, opts)
		if err != nil {
			return nil, classify("git/matching-refs/"+prefix, resp, err)
		}
		for _, r := range refs {
			if name := repourl.RefName(r.GetRef()); name != "" {
				names = append(names, name)
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return names, nil
		}
		opts.Page = resp.NextPage
	}
}
