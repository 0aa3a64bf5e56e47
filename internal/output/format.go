package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/quantmind-br/repotxt/internal/domain"
)

// Separator frames each file header in the text bundle
const Separator = "================================================"

const filePrefix = "File: "

// FormatText concatenates files in order. Each file gets a framed header with
// its path followed by the untouched text and a blank line.
func FormatText(files []domain.FetchedFile) string {
	var b strings.Builder
	for _, f := range files {
		writeHeader(&b, f.Path)
		b.WriteString(f.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

func writeHeader(b *strings.Builder, path string) {
	b.WriteString(Separator)
	b.WriteByte('\n')
	b.WriteString(filePrefix)
	b.WriteString(path)
	b.WriteByte('\n')
	b.WriteString(Separator)
	b.WriteByte('\n')
}

// ParseText splits a FormatText bundle back into path and text pairs.
// Only a complete three-line header preceded by a blank line starts a new file,
// so a text that itself contains such a header is split there.
// URLs are not part of the bundle and come back empty.
func ParseText(s string) ([]domain.FetchedFile, error) {
	if s == "" {
		return nil, nil
	}

	path, rest, err := cutHeader(s)
	if err != nil {
		return nil, fmt.Errorf("file 1: %w", err)
	}

	var files []domain.FetchedFile
	for {
		next, ok := nextHeader(rest)
		if !ok {
			if !strings.HasSuffix(rest, "\n\n") {
				return nil, fmt.Errorf("file %d: body not terminated", len(files)+1)
			}
			files = append(files, domain.FetchedFile{Path: path, Text: rest[:len(rest)-2]})
			return files, nil
		}

		files = append(files, domain.FetchedFile{Path: path, Text: rest[:next]})
		path, rest, err = cutHeader(rest[next+2:])
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", len(files)+1, err)
		}
	}
}

// cutHeader consumes a header at the start of s
func cutHeader(s string) (path, rest string, err error) {
	line, s, ok := strings.Cut(s, "\n")
	if !ok || line != Separator {
		return "", "", errors.New("expected separator")
	}
	line, s, ok = strings.Cut(s, "\n")
	if !ok || !strings.HasPrefix(line, filePrefix) {
		return "", "", errors.New("missing path header")
	}
	path = strings.TrimPrefix(line, filePrefix)
	line, s, ok = strings.Cut(s, "\n")
	if !ok || line != Separator {
		return "", "", errors.New("missing closing separator")
	}
	return path, s, nil
}

// nextHeader finds the blank line that precedes the next complete header in s
func nextHeader(s string) (int, bool) {
	marker := "\n\n" + Separator + "\n" + filePrefix
	offset := 0
	for {
		i := strings.Index(s[offset:], marker)
		if i < 0 {
			return 0, false
		}
		at := offset + i
		if _, _, err := cutHeader(s[at+2:]); err == nil {
			return at, true
		}
		offset = at + 1
	}
}

// FormatZip builds a zip archive with one deflated entry per file.
// A leading "/" is stripped from entry names; bytes are stored exactly.
func FormatZip(files []domain.FetchedFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := time.Now()

	for _, f := range files {
		name := ZipEntryName(f.Path)
		if name == "" {
			return nil, fmt.Errorf("empty archive path for %q", f.Path)
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create entry %s: %w", name, err)
		}
		if _, err := io.WriteString(w, f.Text); err != nil {
			return nil, fmt.Errorf("write entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ZipEntryName is the archive name of a repository path
func ZipEntryName(path string) string {
	return strings.TrimPrefix(path, "/")
}

// ReadZip returns the entries of an archive in archive order
func ReadZip(data []byte) ([]domain.FetchedFile, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	files := make([]domain.FetchedFile, 0, len(zr.File))
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", zf.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", zf.Name, err)
		}
		files = append(files, domain.FetchedFile{Path: zf.Name, Text: string(content)})
	}
	return files, nil
}
