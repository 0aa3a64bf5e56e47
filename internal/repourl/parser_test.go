package repourl

import (
	"testing"

	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		owner      string
		repo       string
		lastString string
		isWiki     bool
	}{
		{"plain", "https://github.com/octo/hello", "octo", "hello", "", false},
		{"trailing slash", "https://github.com/octo/hello/", "octo", "hello", "", false},
		{"git suffix", "https://github.com/octo/hello.git", "octo", "hello", "", false},
		{"tree branch", "https://github.com/octo/hello/tree/main", "octo", "hello", "main", false},
		{"tree branch with path", "https://github.com/octo/hello/tree/dev/src/app.js", "octo", "hello", "dev/src/app.js", false},
		{"tree slash branch", "https://github.com/octo/hello/tree/feature/x/docs/", "octo", "hello", "feature/x/docs", false},
		{"wiki", "https://github.com/octo/hello.wiki", "octo", "hello.wiki", "", true},
		{"wiki git", "https://github.com/octo/hello.wiki.git", "octo", "hello.wiki", "", true},
		{"dotted repo", "https://github.com/octo/hello.js", "octo", "hello.js", "", false},
		{"dotted repo tree", "https://github.com/octo/socket.io/tree/v4.0.0", "octo", "socket.io", "v4.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.owner, got.Owner)
			assert.Equal(t, tt.repo, got.Repo)
			assert.Equal(t, tt.lastString, got.LastString)
			assert.Equal(t, tt.isWiki, got.IsWiki)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	urls := []string{
		"",
		"github.com/octo/hello",
		"http://github.com/octo/hello",
		"https://gitlab.com/octo/hello",
		"https://github.com/octo",
		"https://github.com/octo/hello/blob/main/README.md",
		"https://github.com/octo/hello/tree/",
		"https://github.com//hello",
		"not a url",
	}

	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			got, err := Parse(u)
			assert.Nil(t, got)

			var invalid *domain.InvalidURLError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, u, invalid.URL)
		})
	}
}

func TestParse_WikiAlwaysHasMarker(t *testing.T) {
	for _, u := range []string{
		"https://github.com/a/b.wiki",
		"https://github.com/a/b.wiki/",
		"https://github.com/a/b.wiki.git",
	} {
		got, err := Parse(u)
		require.NoError(t, err)
		assert.True(t, got.IsWiki)
		assert.Equal(t, "b.wiki", got.Repo)
		assert.Equal(t, "b", got.BaseRepo())
	}
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		url     string
		owner   string
		repo    string
		wantErr bool
	}{
		{"https://github.com/octo/hello", "octo", "hello", false},
		{"https://github.com/octo/hello.wiki", "octo", "hello", false},
		{"https://github.com/octo/hello.git", "octo", "hello", false},
		{"https://github.com/octo/hello/tree/main", "", "", true},
		{"https://example.com/octo/hello", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			owner, repo, err := ParseRepoURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

func TestURLBuilders(t *testing.T) {
	assert.Equal(t, "https://github.com/octo/hello", RepoURL("octo", "hello.wiki"))
	assert.Equal(t, "https://github.com/octo/hello.wiki.git", WikiCloneURL("octo", "hello"))
	assert.Equal(t, "octo-hello-wiki", MirrorKey("octo", "hello"))
	assert.Equal(t, "octo-hello-wiki", MirrorKey("octo", "hello.wiki"))
}
