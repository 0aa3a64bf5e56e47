// Package github talks to the GitHub REST API: reference listing, contents
// resolution, recursive trees and raw file content.
package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"

	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/quantmind-br/repotxt/internal/utils"
)

const defaultAPIURL = "https://api.github.com"

// Media types sent in the Accept header
const (
	mediaTypeObject = "application/vnd.github.object+json"
	mediaTypeRaw    = "application/vnd.github.v3.raw"
)

// Client wraps a go-github client. Every request carries the same
// Authorization header when a token is configured.
type Client struct {
	gh     *gogithub.Client
	logger *utils.Logger
}

// Options contains options for creating a Client
type Options struct {
	Token   string
	BaseURL string
	Timeout time.Duration
	// Transport is the base transport under the auth layer
	Transport http.RoundTripper
	UserAgent string
	Logger    *utils.Logger
}

var (
	_ domain.HostingClient = (*Client)(nil)
	_ domain.ContentSource = (*Client)(nil)
)

// NewClient creates a Client. An empty BaseURL means the public API.
func NewClient(opts Options) (*Client, error) {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	transport := base
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		transport = &oauth2.Transport{Source: ts, Base: base}
	}

	gh := gogithub.NewClient(&http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	})
	if err := applyBaseURL(gh, opts.BaseURL); err != nil {
		return nil, err
	}
	if opts.UserAgent != "" {
		gh.UserAgent = opts.UserAgent
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.Nop()
	}

	return &Client{gh: gh, logger: logger.WithComponent("github")}, nil
}

func applyBaseURL(c *gogithub.Client, baseURL string) error {
	if baseURL == "" || baseURL == defaultAPIURL {
		return nil
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return domain.NewValidationError("github.api_url", err.Error())
	}
	c.BaseURL = u
	return nil
}

// get issues a GET against path (relative to the API base or absolute) and
// decodes the response into v, which may be an io.Writer.
func (c *Client) get(ctx context.Context, path, accept string, v any) error {
	req, err := c.gh.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return domain.NewFetchError(path, 0, err)
	}
	req.Header.Set("Accept", accept)

	resp, err := c.gh.Do(ctx, req, v)
	if err != nil {
		return classify(req.URL.String(), resp, err)
	}
	return nil
}

// escapePath escapes every segment of a repository path
func escapePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
