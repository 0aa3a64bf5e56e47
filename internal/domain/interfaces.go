package domain

import "context"

// HostingClient is the subset of the hosting API the pipeline consumes
type HostingClient interface {
	// ListReferences returns branch and tag names
	ListReferences(ctx context.Context, ref RepoRef) (*References, error)
	// ResolveSHA maps a revision and sub-path to a tree object id
	ResolveSHA(ctx context.Context, ref RepoRef, revision, subPath string) (string, error)
	// FetchTree returns the recursive listing of a tree object
	FetchTree(ctx context.Context, ref RepoRef, sha string) ([]TreeEntry, error)
}

// ContentSource retrieves the raw text behind a tree entry URL
type ContentSource interface {
	FetchRaw(ctx context.Context, url string) (string, error)
}

// WikiSource fetches all pages of a repository wiki
type WikiSource interface {
	FetchWikiContents(ctx context.Context, owner, repo, token string) ([]WikiPage, error)
	ToTreeEntries(pages []WikiPage) []TreeEntry
}

// TokenStore persists the access token between runs
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Close() error
}
