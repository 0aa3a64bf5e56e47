package repourl

import (
	"strings"

	"github.com/quantmind-br/repotxt/internal/domain"
)

// PriorityBranches are moved to the front of the branch list, in this order
var PriorityBranches = []string{"master", "main", "dev"}

// WikiReferences is what every wiki resolves to
func WikiReferences() *domain.References {
	return &domain.References{Branches: []string{"master"}, Tags: []string{}}
}

// PrioritizeBranches returns the branches with any priority branch first,
// followed by the others in their original order.
func PrioritizeBranches(branches []string) []string {
	present := make(map[string]bool, len(branches))
	for _, b := range branches {
		present[b] = true
	}

	out := make([]string, 0, len(branches))
	isPriority := make(map[string]bool, len(PriorityBranches))
	for _, p := range PriorityBranches {
		isPriority[p] = true
		if present[p] {
			out = append(out, p)
		}
	}
	for _, b := range branches {
		if !isPriority[b] {
			out = append(out, b)
		}
	}
	return out
}

// RefName strips the "refs/<kind>/" prefix of a fully qualified ref
func RefName(ref string) string {
	parts := strings.SplitN(ref, "/", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// Disambiguate splits lastString into a revision and a sub-path.
//
// Candidates are the prioritized branches followed by the tags. The first
// candidate that lastString equals, or starts with followed by "/", wins.
// Matching is first-hit, not longest-prefix. Without a hit the whole string
// is the revision.
func Disambiguate(lastString string, refs domain.References) (revision, subPath string) {
	candidates := make([]string, 0, len(refs.Branches)+len(refs.Tags))
	candidates = append(candidates, PrioritizeBranches(refs.Branches)...)
	candidates = append(candidates, refs.Tags...)

	for _, ref := range candidates {
		if ref == "" {
			continue
		}
		if lastString == ref {
			return ref, ""
		}
		if strings.HasPrefix(lastString, ref+"/") {
			return ref, lastString[len(ref)+1:]
		}
	}
	return lastString, ""
}
