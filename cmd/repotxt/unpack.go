package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/repotxt/internal/domain"
	"github.com/quantmind-br/repotxt/internal/output"
	"github.com/quantmind-br/repotxt/internal/utils"
	"github.com/spf13/cobra"
)

var zipMagic = []byte("PK\x03\x04")

func newUnpackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack <prompt.txt|partial_repo.zip>",
		Short: "List or extract the files of an exported bundle",
		Args:  cobra.ExactArgs(1),
		RunE:  runUnpack,
	}
	cmd.Flags().StringP("dir", "d", "", "Extract into this directory")
	return cmd
}

func runUnpack(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	files, err := readBundle(data)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	dir, _ := cmd.Flags().GetString("dir")
	out := cmd.OutOrStdout()
	if dir == "" {
		for _, f := range files {
			fmt.Fprintf(out, "%8d  %s\n", len(f.Text), f.Path)
		}
		return nil
	}

	for _, f := range files {
		target, err := extractPath(dir, f.Path)
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(target); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(f.Text), 0644); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Extracted %d files to %s\n", len(files), dir)
	return nil
}

// readBundle decodes a zip archive or a text bundle, sniffing the zip header
func readBundle(data []byte) ([]domain.FetchedFile, error) {
	if bytes.HasPrefix(data, zipMagic) {
		return output.ReadZip(data)
	}
	return output.ParseText(string(data))
}

// extractPath joins name under dir and rejects names that leave it
func extractPath(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(name, "/")))
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("refusing to extract %q outside %s", name, dir)
	}
	return target, nil
}
