package domain

import (
	"path"
	"strings"
)

// EntryType is the kind of a tree entry
type EntryType string

const (
	EntryBlob EntryType = "blob"
	EntryTree EntryType = "tree"
)

// RepoRef identifies a repository or its wiki.
// Repo keeps the ".wiki" suffix for wiki repositories.
type RepoRef struct {
	Owner  string
	Repo   string
	IsWiki bool
}

// String returns "owner/repo"
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Repo
}

// BaseRepo returns the repository name without the wiki suffix
func (r RepoRef) BaseRepo() string {
	return strings.TrimSuffix(r.Repo, ".wiki")
}

// ParsedURL is the result of parsing a repository URL
type ParsedURL struct {
	RepoRef
	// LastString is the raw segment after /tree/, possibly "branch/sub/path"
	LastString string
}

// References holds the branch and tag names of a repository
type References struct {
	Branches []string
	Tags     []string
}

// TreeEntry is a single item of a recursive tree listing
type TreeEntry struct {
	Path string    `json:"path"`
	Type EntryType `json:"type"`
	URL  string    `json:"url"`
}

// IsBlob reports whether the entry is a file
func (e TreeEntry) IsBlob() bool {
	return e.Type == EntryBlob
}

// Extension returns the lower-cased text after the last dot of the file name.
// A name without a dot is its own extension.
func (e TreeEntry) Extension() string {
	return ExtensionOf(e.Path)
}

// ExtensionOf returns the lower-cased extension of a path. Only the base
// name is considered, so dots in directory names never leak into it.
func ExtensionOf(p string) string {
	name := path.Base(p)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

// FetchedFile is a selected file with its retrieved content
type FetchedFile struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	Text string `json:"text"`
}

// WikiPage is a page returned by the wiki service
type WikiPage struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// ExportFormat selects the export artifact
type ExportFormat string

const (
	FormatText ExportFormat = "text"
	FormatZip  ExportFormat = "zip"
)

// Valid reports whether the format is supported
func (f ExportFormat) Valid() bool {
	return f == FormatText || f == FormatZip
}
