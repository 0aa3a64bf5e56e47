// Package repourl parses GitHub repository and wiki URLs and resolves the
// ambiguous "revision/sub/path" suffix of a /tree/ URL against the
// repository's branch and tag names.
package repourl
