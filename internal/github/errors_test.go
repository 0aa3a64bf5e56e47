package github

import (
	"context"
	"errors"
	"net/http"
	"testing"

	gogithub "github.com/google/go-github/v75/github"

	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/stretchr/testify/assert"
)

func errorsAs(err error, target any) bool {
	return errors.As(err, target)
}

func TestClassifyStatus(t *testing.T) {
	header := func(remaining string) http.Header {
		h := http.Header{}
		if remaining != "" {
			h.Set("X-RateLimit-Remaining", remaining)
		}
		return h
	}

	var rl *domain.RateLimitError
	assert.True(t, errorsAs(classifyStatus("u", 403, header("0"), nil), &rl))
	assert.False(t, errorsAs(classifyStatus("u", 403, header("1"), nil), &rl))
	assert.False(t, errorsAs(classifyStatus("u", 403, header(""), nil), &rl))

	var fe *domain.FetchError
	assert.True(t, errorsAs(classifyStatus("u", 422, header(""), nil), &fe))
	assert.Equal(t, 422, fe.StatusCode)
}

func TestClassify_RateLimitErrorStatus(t *testing.T) {
	response := func(status int) *gogithub.Response {
		h := http.Header{}
		h.Set("X-RateLimit-Remaining", "0")
		return &gogithub.Response{Response: &http.Response{StatusCode: status, Header: h}}
	}
	rateErr := func(resp *gogithub.Response) error {
		return &gogithub.RateLimitError{Response: resp.Response, Message: "API rate limit exceeded"}
	}

	var rl *domain.RateLimitError
	forbidden := response(http.StatusForbidden)
	assert.True(t, errorsAs(classify("u", forbidden, rateErr(forbidden)), &rl))

	tooMany := response(http.StatusTooManyRequests)
	err := classify("u", tooMany, rateErr(tooMany))
	assert.False(t, errorsAs(err, &rl))
	var fe *domain.FetchError
	assert.True(t, errorsAs(err, &fe))
	assert.Equal(t, http.StatusTooManyRequests, fe.StatusCode)

	assert.True(t, errorsAs(classify("u", nil, rateErr(forbidden)), &rl))
}

func TestClassify_PassesThroughCancellation(t *testing.T) {
	err := classify("u", nil, context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassify_NoResponse(t *testing.T) {
	err := classify("u", nil, errors.New("dial tcp: refused"))

	var fe *domain.FetchError
	assert.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
}
