package tui

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/quantmind-br/repotxt/internal/selection"
)

// dirSuffix marks picker values that select a whole directory
const dirSuffix = "/"

// PickerOptions configures the interactive picker
type PickerOptions struct {
	Title      string
	Accessible bool
	Input      io.Reader
	Output     io.Writer
}

// ExtensionOptions lists every extension of the tree, pre-selecting hidden ones
func ExtensionOptions(f *selection.Filter) []huh.Option[string] {
	hidden := make(map[string]struct{})
	for _, ext := range f.HiddenExtensions() {
		hidden[ext] = struct{}{}
	}

	exts := f.Extensions()
	opts := make([]huh.Option[string], 0, len(exts))
	for _, ext := range exts {
		_, isHidden := hidden[ext]
		opts = append(opts, huh.NewOption("."+ext, ext).Selected(isHidden))
	}
	return opts
}

// FileOptions lists the directories and files of the visible tree.
// Directory values end with "/" and select every visible file below them.
func FileOptions(f *selection.Filter) []huh.Option[string] {
	visible := f.VisibleSet()

	dirs := make(map[string]struct{})
	var files []string
	for _, e := range visible {
		files = append(files, e.Path)
		for d := path.Dir(e.Path); d != "." && d != "/"; d = path.Dir(d) {
			dirs[d] = struct{}{}
		}
	}

	sortedDirs := make([]string, 0, len(dirs))
	for d := range dirs {
		sortedDirs = append(sortedDirs, d)
	}
	sort.Strings(sortedDirs)

	opts := make([]huh.Option[string], 0, len(sortedDirs)+len(files))
	for _, d := range sortedDirs {
		opts = append(opts, huh.NewOption(d+dirSuffix+" (all files)", d+dirSuffix))
	}
	for _, p := range files {
		opts = append(opts, huh.NewOption(p, p).Selected(f.IsSelected(p)))
	}
	return opts
}

// ApplyPicks replaces the hidden set and the selection with the picker result
func ApplyPicks(f *selection.Filter, hidden, picks []string) {
	f.SetHidden(hidden)
	f.ClearSelection()
	for _, p := range picks {
		if dir, ok := strings.CutSuffix(p, dirSuffix); ok {
			f.SelectPrefix(dir)
			continue
		}
		f.Select(p)
	}
}

// Pick asks which extensions to hide and then which files to export
func Pick(f *selection.Filter, opts PickerOptions) error {
	hidden := f.HiddenExtensions()
	extForm := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Hide extensions").
				Description("Files with these extensions are left out").
				Options(ExtensionOptions(f)...).
				Filterable(true).
				Value(&hidden),
		),
	)
	if err := runForm(extForm, opts); err != nil {
		return err
	}
	f.SetHidden(hidden)

	fileOpts := FileOptions(f)
	if len(fileOpts) == 0 {
		return fmt.Errorf("every file is hidden")
	}

	title := opts.Title
	if title == "" {
		title = "Select files"
	}
	var picks []string
	fileForm := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Description("space toggles, / filters, enter confirms").
				Options(fileOpts...).
				Filterable(true).
				Height(20).
				Value(&picks),
		),
	)
	if err := runForm(fileForm, opts); err != nil {
		return err
	}

	ApplyPicks(f, hidden, picks)
	return nil
}

func runForm(form *huh.Form, opts PickerOptions) error {
	form = form.WithTheme(GetTheme())
	if opts.Accessible {
		form = form.WithAccessible(true).WithTheme(GetAccessibleTheme())
	}
	if opts.Input != nil {
		form = form.WithInput(opts.Input)
	}
	if opts.Output != nil {
		form = form.WithOutput(opts.Output)
	}
	return form.Run()
}
