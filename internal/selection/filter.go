// Package selection holds the working file list of a loaded tree, the hidden
// extension set and the user's file selection.
package selection

import (
	"sort"
	"strings"
	"sync"

	"github.com/quantmind-br/repotxt/internal/domain"
)

// Filter owns the selection state of one loaded tree.
// Visibility and selection are independent; export needs both.
type Filter struct {
	mu       sync.RWMutex
	all      []domain.TreeEntry
	hidden   map[string]struct{}
	selected map[string]struct{}
	visible  []domain.TreeEntry
}

// NewFilter creates an empty filter
func NewFilter() *Filter {
	return &Filter{
		hidden:   make(map[string]struct{}),
		selected: make(map[string]struct{}),
	}
}

// SetTree replaces the file list and clears hidden extensions and selection
func (f *Filter) SetTree(entries []domain.TreeEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.all = append([]domain.TreeEntry(nil), entries...)
	f.hidden = make(map[string]struct{})
	f.selected = make(map[string]struct{})
	f.recompute()
}

// Files returns every entry of the loaded tree
func (f *Filter) Files() []domain.TreeEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]domain.TreeEntry(nil), f.all...)
}

// Extensions returns each distinct blob extension once, sorted
func (f *Filter) Extensions() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, e := range f.all {
		if e.IsBlob() {
			seen[e.Extension()] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for ext := range seen {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ParseExtensions turns "md, .PNG,,txt" into {"md", "png", "txt"}
func ParseExtensions(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		ext = strings.TrimPrefix(ext, ".")
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

// SetHiddenExtensions replaces the hidden set with the parsed csv
func (f *Filter) SetHiddenExtensions(csv string) {
	f.SetHidden(ParseExtensions(csv))
}

// SetHidden replaces the hidden set
func (f *Filter) SetHidden(exts []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.hidden = make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" {
			f.hidden[ext] = struct{}{}
		}
	}
	f.recompute()
}

// HiddenExtensions returns the hidden set, sorted
func (f *Filter) HiddenExtensions() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]string, 0, len(f.hidden))
	for ext := range f.hidden {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// VisibleSet returns the blobs whose extension is not hidden, in tree order
func (f *Filter) VisibleSet() []domain.TreeEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]domain.TreeEntry(nil), f.visible...)
}

// recompute rebuilds the visible set from scratch. Callers hold the write lock.
func (f *Filter) recompute() {
	visible := make([]domain.TreeEntry, 0, len(f.all))
	for _, e := range f.all {
		if !e.IsBlob() {
			continue
		}
		if _, hidden := f.hidden[e.Extension()]; !hidden {
			visible = append(visible, e)
		}
	}
	f.visible = visible
}

// Select marks paths as selected. Unknown paths are ignored.
func (f *Filter) Select(paths ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	known := f.blobPaths()
	for _, p := range paths {
		if _, ok := known[p]; ok {
			f.selected[p] = struct{}{}
		}
	}
}

// Deselect clears the selection bit of paths
func (f *Filter) Deselect(paths ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range paths {
		delete(f.selected, p)
	}
}

// SelectPrefix selects every visible blob under dir
func (f *Filter) SelectPrefix(dir string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := strings.Trim(dir, "/")
	for _, e := range f.visible {
		if prefix == "" || e.Path == prefix || strings.HasPrefix(e.Path, prefix+"/") {
			f.selected[e.Path] = struct{}{}
		}
	}
}

// SelectAll selects every visible blob
func (f *Filter) SelectAll() {
	f.SelectPrefix("")
}

// ClearSelection deselects everything
func (f *Filter) ClearSelection() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = make(map[string]struct{})
}

// IsSelected reports the selection bit of a path
func (f *Filter) IsSelected(path string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.selected[path]
	return ok
}

// SelectedFiles returns blobs that are both selected and visible, in tree order
func (f *Filter) SelectedFiles() []domain.TreeEntry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]domain.TreeEntry, 0, len(f.selected))
	for _, e := range f.visible {
		if _, ok := f.selected[e.Path]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (f *Filter) blobPaths() map[string]struct{} {
	out := make(map[string]struct{}, len(f.all))
	for _, e := range f.all {
		if e.IsBlob() {
			out[e.Path] = struct{}{}
		}
	}
	return out
}
