package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gogithub "github.com/google/go-github/v75/github"

	"github.com/quantmind-br/repotxt/internal/domain"
)

// classify maps a failed API call onto the domain error taxonomy:
// 403 with an exhausted quota is a rate limit, 404 not found, 401 auth,
// anything else a FetchError carrying the status.
func classify(url string, resp *gogithub.Response, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	// go-github also reports 429 with an exhausted quota as a RateLimitError;
	// only 403 counts as one here.
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) && (resp == nil || resp.Response == nil || resp.StatusCode == http.StatusForbidden) {
		return &domain.RateLimitError{URL: url}
	}

	if resp == nil || resp.Response == nil {
		return domain.NewFetchError(url, 0, err)
	}
	return classifyStatus(url, resp.StatusCode, resp.Header, err)
}

func classifyStatus(url string, status int, header http.Header, err error) error {
	switch {
	case status == http.StatusForbidden && header.Get("X-RateLimit-Remaining") == "0":
		return &domain.RateLimitError{URL: url}
	case status == http.StatusNotFound:
		return domain.NewNotFoundError(url, nil)
	case status == http.StatusUnauthorized:
		return &domain.AuthError{URL: url}
	}
	if err == nil {
		err = fmt.Errorf("unexpected status %d", status)
	}
	return domain.NewFetchError(url, status, err)
}
