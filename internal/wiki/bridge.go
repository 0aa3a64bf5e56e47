package wiki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quantmind-br/repotxt/internal/blob"
	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/quantmind-br/repotxt/internal/repourl"
	"github.com/quantmind-br/repotxt/internal/utils"
)

// Compile-time check: *Bridge implements domain.WikiSource.
var _ domain.WikiSource = (*Bridge)(nil)

// BridgeOptions configures a Bridge
type BridgeOptions struct {
	// BaseURL of the wiki service, e.g. http://localhost:3000
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	// Workers caps concurrent page downloads; 0 means unbounded
	Workers int
	// Blobs receives page texts in ToTreeEntries
	Blobs  *blob.Store
	Logger *utils.Logger
}

// Bridge talks to the wiki service and turns wiki pages into tree entries
type Bridge struct {
	baseURL string
	client  *http.Client
	workers int
	blobs   *blob.Store
	logger  *utils.Logger
}

// NewBridge creates a new Bridge
func NewBridge(opts BridgeOptions) *Bridge {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	blobs := opts.Blobs
	if blobs == nil {
		blobs = blob.NewStore("wiki")
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	return &Bridge{
		baseURL: baseURL,
		client:  client,
		workers: opts.Workers,
		blobs:   blobs,
		logger:  logger.WithComponent("wiki"),
	}
}

type cloneRequest struct {
	RepoURL string `json:"repoUrl"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

type pagesResponse struct {
	Pages []string `json:"pages"`
}

type contentResponse struct {
	Content string `json:"content"`
}

// FetchWikiContents mirrors the wiki of owner/repo through the service and
// downloads every page. Pages come back in the order the service lists them.
func (b *Bridge) FetchWikiContents(ctx context.Context, owner, repo, token string) ([]domain.WikiPage, error) {
	repoURL := repourl.RepoURL(owner, repo)
	logger := b.logger.WithRepo(owner, repo).WithURL(b.baseURL)

	if err := b.clone(ctx, repoURL, token); err != nil {
		return nil, err
	}

	var listing pagesResponse
	listURL := b.baseURL + "/wiki-pages?repoUrl=" + url.QueryEscape(repoURL)
	if err := b.getJSON(ctx, listURL, token, &listing); err != nil {
		return nil, err
	}
	logger.Debug().Int("pages", len(listing.Pages)).Msg("Listed wiki pages")

	return utils.MapOrdered(ctx, listing.Pages, b.workers, func(ctx context.Context, page string) (domain.WikiPage, error) {
		var content contentResponse
		pageURL := fmt.Sprintf("%s/wiki-pages/%s?repoUrl=%s", b.baseURL, url.PathEscape(page), url.QueryEscape(repoURL))
		if err := b.getJSON(ctx, pageURL, token, &content); err != nil {
			return domain.WikiPage{}, fmt.Errorf("fetch wiki page %s: %w", page, err)
		}
		return domain.WikiPage{Path: page, Text: content.Content}, nil
	})
}

func (b *Bridge) clone(ctx context.Context, repoURL, token string) error {
	body, err := json.Marshal(cloneRequest{RepoURL: repoURL})
	if err != nil {
		return fmt.Errorf("marshal clone request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/clone-wiki", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create clone request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	setBearer(req, token)

	resp, err := b.client.Do(req)
	if err != nil {
		return domain.NewCloneError(repoURL, "", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		details := e.Details
		if details == "" {
			details = e.Error
		}
		return domain.NewCloneError(repoURL, details, fmt.Errorf("wiki service returned HTTP %d", resp.StatusCode))
	}
	return nil
}

func (b *Bridge) getJSON(ctx context.Context, rawURL, token string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	setBearer(req, token)

	resp, err := b.client.Do(req)
	if err != nil {
		return domain.NewFetchError(rawURL, 0, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return domain.NewNotFoundError(rawURL, serviceError(e, resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return domain.NewFetchError(rawURL, resp.StatusCode, serviceError(e, resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return domain.NewFetchError(rawURL, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func serviceError(e errorResponse, status int) error {
	switch {
	case e.Error != "" && e.Details != "":
		return fmt.Errorf("%s: %s", e.Error, e.Details)
	case e.Error != "":
		return errors.New(e.Error)
	default:
		return fmt.Errorf("wiki service returned HTTP %d", status)
	}
}

func setBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// ToTreeEntries stores each page text in the blob store and returns one blob
// entry per page whose URL resolves to that text.
func (b *Bridge) ToTreeEntries(pages []domain.WikiPage) []domain.TreeEntry {
	entries := make([]domain.TreeEntry, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, domain.TreeEntry{
			Path: p.Path,
			Type: domain.EntryBlob,
			URL:  b.blobs.Put(p.Text),
		})
	}
	return entries
}

// Blobs returns the store backing the entries of ToTreeEntries
func (b *Bridge) Blobs() *blob.Store {
	return b.blobs
}
