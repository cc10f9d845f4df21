// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/notedistill/pkg/types"
)

// Render assembles note blocks into the output text: a "## Title" line per
// block followed by "• " bullet lines, blocks separated by a blank line.
// Empty bullets are skipped; a block with no bullets keeps its title line.
// Parts are collected and joined once.
func Render(blocks []types.NoteBlock) string {
	if len(blocks) == 0 {
		return ""
	}

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		var sb strings.Builder
		sb.WriteString("## ")
		sb.WriteString(b.Title)
		for _, bullet := range b.Bullets {
			if bullet == "" {
				continue
			}
			sb.WriteString("\n• ")
			sb.WriteString(bullet)
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// DefaultOutputPath returns the sibling output file for an input PDF:
// lecture.pdf becomes lecture_paraphrased.txt.
func DefaultOutputPath(pdfPath string) string {
	ext := filepath.Ext(pdfPath)
	return strings.TrimSuffix(pdfPath, ext) + "_paraphrased.txt"
}

// WriteOutputs writes the rendered notes of every document that produced
// output. With combinedPath set, documents are concatenated into that one
// file, separated by a marker line naming each source when there is more
// than one. With combinedPath empty, each document is written next to its
// input.
func WriteOutputs(results []types.DocumentResult, combinedPath string, w io.Writer) error {
	var produced []types.DocumentResult
	for _, r := range results {
		if r.Err == nil {
			produced = append(produced, r)
		}
	}
	if len(produced) == 0 {
		return fmt.Errorf("no documents produced output")
	}

	if combinedPath == "" {
		for _, r := range produced {
			path := DefaultOutputPath(r.Path)
			if err := os.WriteFile(path, []byte(r.Output), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			fmt.Fprintf(w, "wrote %s\n", path)
		}
		return nil
	}

	parts := make([]string, 0, len(produced))
	for _, r := range produced {
		if len(produced) > 1 {
			parts = append(parts, fmt.Sprintf("===== %s =====\n\n%s", r.Path, r.Output))
		} else {
			parts = append(parts, r.Output)
		}
	}

	if err := os.WriteFile(combinedPath, []byte(strings.Join(parts, "\n")), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", combinedPath, err)
	}
	fmt.Fprintf(w, "wrote %s\n", combinedPath)
	return nil
}
