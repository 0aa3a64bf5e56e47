// Package app ties the pipeline together: a Session resolves a URL into a
// tree, owns the selection over it, and exports the selected files.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quantmind-br/repotxt/internal/blob"
	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/quantmind-br/repotxt/internal/fetcher"
	"github.com/quantmind-br/repotxt/internal/output"
	"github.com/quantmind-br/repotxt/internal/repourl"
	"github.com/quantmind-br/repotxt/internal/selection"
	"github.com/quantmind-br/repotxt/internal/utils"
)

// RepoClient is the hosting API surface a session needs
type RepoClient interface {
	domain.HostingClient
	domain.ContentSource
}

// ClientFactory builds a client that authenticates with token
type ClientFactory func(token string) (RepoClient, error)

// SessionOptions contains the collaborators of a Session
type SessionOptions struct {
	NewClient ClientFactory
	Wiki      domain.WikiSource
	// Blobs holds wiki page texts; only the current tree's pages are kept
	Blobs *blob.Store
	// Tokens persists the token of each submission when set
	Tokens  domain.TokenStore
	Writer  *output.Writer
	Workers int
	Retrier *fetcher.Retrier
	// Progress returns the progress callback for a fetch of total files
	Progress func(total int) fetcher.ProgressFunc
	Logger   *utils.Logger
}

// Snapshot describes the tree loaded by a submission
type Snapshot struct {
	Ref        domain.RepoRef
	Source     SourceKind
	Revision   string
	SubPath    string
	SHA        string
	Entries    []domain.TreeEntry
	Generation uint64
	LoadedAt   time.Time
}

// Session holds the state between a submission and its exports
type Session struct {
	opts   SessionOptions
	filter *selection.Filter
	logger *utils.Logger

	mu         sync.Mutex
	generation uint64
	current    *Snapshot
	client     RepoClient
}

// NewSession creates a Session
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.NewClient == nil {
		return nil, fmt.Errorf("client factory is required")
	}
	if opts.Writer == nil {
		opts.Writer = output.NewWriter(output.WriterOptions{})
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	return &Session{
		opts:   opts,
		filter: selection.NewFilter(),
		logger: logger.WithComponent("session"),
	}, nil
}

// Filter returns the selection over the loaded tree
func (s *Session) Filter() *selection.Filter {
	return s.filter
}

// Current returns the loaded snapshot, or nil before the first submission
func (s *Session) Current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Submit resolves rawURL into a tree and makes it the current snapshot.
// A submission that finishes after a newer one started returns
// domain.ErrStaleResult and leaves the newer state untouched.
func (s *Session) Submit(ctx context.Context, rawURL, token string) (*Snapshot, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	if s.opts.Tokens != nil {
		if err := s.opts.Tokens.Save(ctx, token); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to persist access token")
		}
	}

	parsed, err := repourl.Parse(rawURL)
	if err != nil {
		return nil, submitError(err)
	}

	client, err := s.opts.NewClient(token)
	if err != nil {
		return nil, submitError(err)
	}

	snap, err := s.resolve(ctx, client, parsed, token)
	if err != nil {
		return nil, submitError(err)
	}
	snap.Generation = gen
	snap.LoadedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug().Uint64("generation", gen).Msg("Discarding superseded submission")
		if s.opts.Blobs != nil {
			s.opts.Blobs.Delete(locators(snap.Entries)...)
		}
		return nil, domain.ErrStaleResult
	}
	// Only the latest generation gets here, so the blobs of every other
	// submission belong to replaced or superseded trees.
	if s.opts.Blobs != nil {
		s.opts.Blobs.Retain(locators(snap.Entries))
	}
	s.filter.SetTree(snap.Entries)
	s.current = snap
	s.client = client

	s.logger.Info().
		Str("repo", snap.Ref.String()).
		Str("source", string(snap.Source)).
		Int("entries", len(snap.Entries)).
		Msg("Repository loaded")
	return snap, nil
}

func locators(entries []domain.TreeEntry) []string {
	urls := make([]string, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, e.URL)
	}
	return urls
}

func (s *Session) resolve(ctx context.Context, client RepoClient, parsed *domain.ParsedURL, token string) (*Snapshot, error) {
	snap := &Snapshot{Ref: parsed.RepoRef, Source: DetectSource(parsed)}
	logger := s.logger.WithRepo(parsed.Owner, parsed.Repo)

	if snap.Source == SourceWiki {
		if s.opts.Wiki == nil {
			return nil, fmt.Errorf("wiki service is not configured")
		}
		pages, err := s.opts.Wiki.FetchWikiContents(ctx, parsed.Owner, parsed.Repo, token)
		if err != nil {
			return nil, err
		}
		snap.Revision = "master"
		snap.Entries = s.opts.Wiki.ToTreeEntries(pages)
		return snap, nil
	}

	if parsed.LastString != "" {
		refs, err := client.ListReferences(ctx, parsed.RepoRef)
		if err != nil {
			return nil, err
		}
		snap.Revision, snap.SubPath = repourl.Disambiguate(parsed.LastString, *refs)
		logger.Debug().Str("revision", snap.Revision).Str("path", snap.SubPath).Msg("Resolved revision")
	}

	sha, err := client.ResolveSHA(ctx, parsed.RepoRef, snap.Revision, snap.SubPath)
	if err != nil {
		return nil, err
	}
	snap.SHA = sha

	entries, err := client.FetchTree(ctx, parsed.RepoRef, sha)
	if err != nil {
		return nil, err
	}
	snap.Entries = entries
	return snap, nil
}

// Fetch retrieves the content of every selected file in tree order
func (s *Session) Fetch(ctx context.Context) ([]domain.FetchedFile, error) {
	s.mu.Lock()
	gen, client, current := s.generation, s.client, s.current
	s.mu.Unlock()

	if current == nil {
		return nil, domain.ErrNoTree
	}

	selected := s.filter.SelectedFiles()
	if len(selected) == 0 {
		return nil, &domain.NoSelectionError{}
	}

	opts := fetcher.Options{
		Workers: s.opts.Workers,
		Retrier: s.opts.Retrier,
		Logger:  s.logger,
	}
	if s.opts.Progress != nil {
		opts.Progress = s.opts.Progress(len(selected))
	}

	files, err := fetcher.NewContentFetcher(client, opts).FetchContents(ctx, selected)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	stale := gen != s.generation
	s.mu.Unlock()
	if stale {
		return nil, domain.ErrStaleResult
	}
	return files, nil
}

// Export fetches the selected files and writes the artifact for format.
// Nothing touches the network when no file is selected.
func (s *Session) Export(ctx context.Context, format domain.ExportFormat) (string, error) {
	if !format.Valid() {
		return "", domain.NewValidationError("format", fmt.Sprintf("unsupported format %q", format))
	}

	files, err := s.Fetch(ctx)
	if errors.Is(err, domain.ErrStaleResult) {
		return "", err
	}
	if err != nil {
		return "", exportError(format, err)
	}

	path, err := s.opts.Writer.Write(ctx, format, files)
	if err != nil {
		return "", exportError(format, err)
	}

	s.logger.Info().Str("path", path).Int("files", len(files)).Msg("Export written")
	return path, nil
}
