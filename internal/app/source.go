package app

import "github.com/quantmind-br/repotxt/internal/domain"

// SourceKind describes how a submitted URL is resolved
type SourceKind string

const (
	// SourceRepository is a bare repository URL on its default branch
	SourceRepository SourceKind = "repository"
	// SourceTree is a /tree/ URL naming a revision and maybe a sub-path
	SourceTree SourceKind = "tree"
	// SourceWiki is a repository wiki, served through the wiki service
	SourceWiki SourceKind = "wiki"
)

// DetectSource classifies a parsed URL
func DetectSource(u *domain.ParsedURL) SourceKind {
	switch {
	case u.IsWiki:
		return SourceWiki
	case u.LastString != "":
		return SourceTree
	default:
		return SourceRepository
	}
}
