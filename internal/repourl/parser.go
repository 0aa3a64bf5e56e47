package repourl

import (
	"regexp"
	"strings"

	"github.com/quantmind-br/repotxt/internal/domain"
)

var (
	// treeURLPattern accepts repository, wiki and /tree/ URLs
	treeURLPattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+?)(\.wiki)?(\.git)?(/tree/(.+))?$`)

	// repoURLPattern accepts the bare repository URLs the wiki service is called with
	repoURLPattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+?)(\.wiki)?(\.git)?$`)
)

// Parse splits a repository URL into owner, repo, the raw /tree/ suffix and
// the wiki flag. One trailing slash is ignored.
func Parse(raw string) (*domain.ParsedURL, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(raw), "/")

	m := treeURLPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, domain.NewInvalidURLError(raw)
	}

	isWiki := m[3] != ""
	return &domain.ParsedURL{
		RepoRef: domain.RepoRef{
			Owner:  m[1],
			Repo:   m[2] + m[3],
			IsWiki: isWiki,
		},
		LastString: m[6],
	}, nil
}

// ParseRepoURL extracts owner and repo (without any wiki or .git suffix) from a
// plain repository URL. /tree/ URLs are rejected.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	m := repoURLPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", "", domain.NewInvalidURLError(raw)
	}
	return m[1], m[2], nil
}

// RepoURL builds the canonical web URL of a repository
func RepoURL(owner, repo string) string {
	return "https://github.com/" + owner + "/" + strings.TrimSuffix(repo, ".wiki")
}

// WikiCloneURL builds the git URL of a repository's wiki
func WikiCloneURL(owner, repo string) string {
	return RepoURL(owner, repo) + ".wiki.git"
}

// MirrorKey is the directory name of a wiki mirror
func MirrorKey(owner, repo string) string {
	return owner + "-" + strings.TrimSuffix(repo, ".wiki") + "-wiki"
}
