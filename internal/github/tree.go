package github

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/quantmind-br/repotxt/internal/domain"
)

type contentObject struct {
	SHA  string `json:"sha"`
	Type string `json:"type"`
}

// ResolveSHA returns the object id addressed by revision and subPath through
// the contents endpoint. An empty revision means master; wikis always use master.
func (c *Client) ResolveSHA(ctx context.Context, ref domain.RepoRef, revision, subPath string) (string, error) {
	if ref.IsWiki || revision == "" {
		revision = "master"
	}

	u := fmt.Sprintf("repos/%s/%s/contents/%s?ref=%s",
		url.PathEscape(ref.Owner), url.PathEscape(ref.Repo), escapePath(subPath), url.QueryEscape(revision))

	var obj contentObject
	if err := c.get(ctx, u, mediaTypeObject, &obj); err != nil {
		return "", err
	}
	if obj.SHA == "" {
		return "", domain.NewFetchError(u, 0, fmt.Errorf("no sha in contents response"))
	}

	c.logger.Debug().
		Str("repo", ref.String()).
		Str("revision", revision).
		Str("path", subPath).
		Str("sha", obj.SHA).
		Msg("Resolved object")

	return obj.SHA, nil
}

// FetchTree returns the recursive listing of a tree in one request. A
// truncated listing is returned as is, with a warning.
func (c *Client) FetchTree(ctx context.Context, ref domain.RepoRef, sha string) ([]domain.TreeEntry, error) {
	tree, resp, err := c.gh.Git.GetTree(ctx, ref.Owner, ref.Repo, sha, true)
	if err != nil {
		return nil, classify(fmt.Sprintf("repos/%s/git/trees/%s", ref.String(), sha), resp, err)
	}

	if tree.GetTruncated() {
		c.logger.Warn().
			Str("repo", ref.String()).
			Str("sha", sha).
			Int("entries", len(tree.Entries)).
			Msg("Tree listing truncated by the API; some files are missing")
	}

	entries := make([]domain.TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entries = append(entries, domain.TreeEntry{
			Path: e.GetPath(),
			Type: domain.EntryType(e.GetType()),
			URL:  e.GetURL(),
		})
	}
	return entries, nil
}

// FetchRaw returns the raw content behind a blob URL
func (c *Client) FetchRaw(ctx context.Context, rawURL string) (string, error) {
	var buf bytes.Buffer
	if err := c.get(ctx, rawURL, mediaTypeRaw, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
