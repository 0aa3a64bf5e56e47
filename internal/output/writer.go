package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/quantmind-br/repotxt/internal/utils"
)

// Writer saves export artifacts under a base directory
type Writer struct {
	baseDir  string
	textFile string
	zipFile  string
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	BaseDir  string
	TextFile string
	ZipFile  string
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	if opts.TextFile == "" {
		opts.TextFile = "prompt.txt"
	}
	if opts.ZipFile == "" {
		opts.ZipFile = "partial_repo.zip"
	}

	return &Writer{
		baseDir:  utils.ExpandPath(opts.BaseDir),
		textFile: opts.TextFile,
		zipFile:  opts.ZipFile,
	}
}

// Render produces the artifact bytes for a format
func Render(format domain.ExportFormat, files []domain.FetchedFile) ([]byte, error) {
	switch format {
	case domain.FormatText:
		return []byte(FormatText(files)), nil
	case domain.FormatZip:
		return FormatZip(files)
	default:
		return nil, domain.NewValidationError("format", fmt.Sprintf("unsupported format %q", format))
	}
}

// Path returns where an artifact of the given format is written
func (w *Writer) Path(format domain.ExportFormat) string {
	name := w.textFile
	if format == domain.FormatZip {
		name = w.zipFile
	}
	return filepath.Join(w.baseDir, name)
}

// Write renders files and writes the artifact, returning its path.
// An existing artifact is replaced.
func (w *Writer) Write(ctx context.Context, format domain.ExportFormat, files []domain.FetchedFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := Render(format, files)
	if err != nil {
		return "", err
	}

	path := w.Path(format)
	if err := utils.EnsureDir(path); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
