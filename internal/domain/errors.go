package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrMirrorNotFound indicates the wiki mirror has not been cloned yet
	ErrMirrorNotFound = errors.New("wiki repository not found")

	// ErrPageNotFound indicates a wiki page does not exist in the mirror
	ErrPageNotFound = errors.New("page not found")

	// ErrStaleResult indicates a result belongs to a superseded submission
	ErrStaleResult = errors.New("result superseded by a newer submission")

	// ErrNoTree indicates an operation needs a tree but none was loaded
	ErrNoTree = errors.New("no repository loaded")
)

// InvalidURLError is returned when a repository URL does not match any accepted shape
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid GitHub repository URL %q. Please use one of the following formats:\n"+
		"  https://github.com/owner/repo\n"+
		"  https://github.com/owner/repo/tree/branch/path\n"+
		"  https://github.com/owner/repo.wiki", e.URL)
}

// NewInvalidURLError creates a new InvalidURLError
func NewInvalidURLError(url string) *InvalidURLError {
	return &InvalidURLError{URL: url}
}

// ReferenceFetchError is returned when branches or tags cannot be listed
type ReferenceFetchError struct {
	Owner string
	Repo  string
	Err   error
}

func (e *ReferenceFetchError) Error() string {
	return fmt.Sprintf("failed to fetch references for %s/%s: %v", e.Owner, e.Repo, e.Err)
}

func (e *ReferenceFetchError) Unwrap() error {
	return e.Err
}

// NewReferenceFetchError creates a new ReferenceFetchError
func NewReferenceFetchError(owner, repo string, err error) *ReferenceFetchError {
	return &ReferenceFetchError{Owner: owner, Repo: repo, Err: err}
}

// NotFoundError is returned for 404 responses and missing wiki mirrors
type NotFoundError struct {
	URL string
	Err error
}

func (e *NotFoundError) Error() string {
	msg := "Repository, wiki, or path not found. Please check that the URL and permissions are correct"
	if e.URL != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.URL)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(url string, err error) *NotFoundError {
	return &NotFoundError{URL: url, Err: err}
}

// AuthError is returned for 401 responses
type AuthError struct {
	URL string
}

func (e *AuthError) Error() string {
	return "Authentication failed. Please check your access token if you're trying to access private content"
}

// RateLimitError is returned for 403 responses with an exhausted quota
type RateLimitError struct {
	URL string
}

func (e *RateLimitError) Error() string {
	return "GitHub API rate limit exceeded. Please try again later or provide a valid access token to increase your rate limit"
}

// FetchError represents any other unsuccessful hosting API response
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// CloneError is returned when the wiki mirror cannot be cloned or updated
type CloneError struct {
	RepoURL string
	Details string
	Err     error
}

func (e *CloneError) Error() string {
	msg := fmt.Sprintf("failed to clone or update wiki repository %s", e.RepoURL)
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

// NewCloneError creates a new CloneError
func NewCloneError(repoURL, details string, err error) *CloneError {
	return &CloneError{RepoURL: repoURL, Details: details, Err: err}
}

// NoSelectionError is returned when an export is requested with nothing selected
type NoSelectionError struct{}

func (e *NoSelectionError) Error() string {
	return "no files selected"
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsRetryable reports whether a content fetch error is worth retrying.
// Classified client errors (not found, auth, rate limit) never are.
func IsRetryable(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
		return fetchErr.StatusCode == 0
	}
	return false
}
