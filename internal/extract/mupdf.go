// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gen2brain/go-fitz"
)

// Synthetic sizes for MuPDF plain text. Heading lines must exceed the
// derived threshold; body lines must supply the dominant size the threshold
// derives from, since headingThreshold ignores size-0 lines.
const (
	mupdfHeadingSize = 100.0
	mupdfBodySize    = 12.0
)

// MuPDFExtractor reads PDFs through MuPDF. Its plain-text output carries no
// font sizes, so headings are inferred from short standalone lines without
// sentence punctuation.
type MuPDFExtractor struct{}

func (e *MuPDFExtractor) Extract(pdfPath string, opts Options) (string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", ErrExtraction, pdfPath, err)
	}
	defer doc.Close()

	pages := make([][]line, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			// A single unreadable page does not fail the document.
			continue
		}
		pages = append(pages, mupdfLines(text))
	}

	threshold := headingThreshold(pages, opts)
	return renderSections(pages, threshold, opts.MinSectionLen), nil
}

// mupdfLines converts one page of plain text into sized lines for the
// shared threshold and section logic.
func mupdfLines(text string) []line {
	var pg []line
	for _, raw := range strings.Split(text, "\n") {
		ln := line{text: raw, size: mupdfBodySize}
		if isLikelyHeading(raw) {
			ln.size = mupdfHeadingSize
		}
		pg = append(pg, ln)
	}
	return pg
}

// isLikelyHeading reports whether a line looks like a standalone heading:
// short, a handful of words, starting with an uppercase letter or digit, and
// free of sentence punctuation.
func isLikelyHeading(raw string) bool {
	text := strings.TrimSpace(raw)
	if len(text) < 3 || len(text) > 60 {
		return false
	}
	if strings.ContainsAny(text, ".!?,;:") {
		return false
	}
	words := strings.Fields(text)
	if len(words) == 0 || len(words) > 8 {
		return false
	}
	first := []rune(text)[0]
	return unicode.IsUpper(first) || unicode.IsDigit(first)
}
