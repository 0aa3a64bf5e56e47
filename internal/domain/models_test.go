package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensionOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.py", "py"},
		{"src/App.JS", "js"},
		{"archive.tar.gz", "gz"},
		{"Makefile", "makefile"},
		{".gitignore", "gitignore"},
		{"dir.d/file", "file"},
		{"docs.v2/Makefile", "makefile"},
		{"pkg.v1/sub.dir/README", "readme"},
		{"docs.v2/guide.MD", "md"},
		{"trailing.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtensionOf(tt.path))
		})
	}
}

func TestRepoRef(t *testing.T) {
	ref := RepoRef{Owner: "octo", Repo: "hello.wiki", IsWiki: true}

	assert.Equal(t, "octo/hello.wiki", ref.String())
	assert.Equal(t, "hello", ref.BaseRepo())
}

func TestExportFormat_Valid(t *testing.T) {
	assert.True(t, FormatText.Valid())
	assert.True(t, FormatZip.Valid())
	assert.False(t, ExportFormat("pdf").Valid())
}

func TestTreeEntry_IsBlob(t *testing.T) {
	assert.True(t, TreeEntry{Path: "a", Type: EntryBlob}.IsBlob())
	assert.False(t, TreeEntry{Path: "a", Type: EntryTree}.IsBlob())
}
