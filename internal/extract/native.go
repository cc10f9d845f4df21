// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"math"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// rowTolerance is the vertical distance (points) within which positioned
// text fragments are treated as the same visual row.
const rowTolerance = 2.0

// NativeExtractor reads PDFs with a pure-Go parser. It sees positioned text
// runs with font sizes, which drives the heading heuristic directly.
type NativeExtractor struct{}

func (e *NativeExtractor) Extract(pdfPath string, opts Options) (text string, err error) {
	// The parser panics on some malformed files instead of returning an
	// error; recover so a corrupt input fails only its own document.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %s: %v", ErrExtraction, pdfPath, r)
		}
	}()

	f, reader, err := pdflib.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", ErrExtraction, pdfPath, err)
	}
	defer f.Close()

	pages := make([][]line, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pages = append(pages, rowsFromContent(page.Content().Text))
	}

	threshold := headingThreshold(pages, opts)
	return renderSections(pages, threshold, opts.MinSectionLen), nil
}

// rowsFromContent groups positioned text fragments into visual rows. The
// fragments arrive in content-stream order; a new row starts when the
// vertical position moves by more than rowTolerance. Each row's size is the
// largest font size it contains, so a heading keeps its size even when mixed
// with smaller inline runs.
func rowsFromContent(texts []pdflib.Text) []line {
	var rows []line
	var cur strings.Builder
	var curSize, curY, lastEnd float64
	open := false

	flush := func() {
		if open {
			rows = append(rows, line{text: cur.String(), size: curSize})
			cur.Reset()
			curSize = 0
		}
		open = false
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if !open || math.Abs(t.Y-curY) > rowTolerance {
			flush()
			open = true
			curY = t.Y
			lastEnd = t.X
		}
		// Fragments are often sub-word runs; insert a space only when
		// there is a visible horizontal gap.
		if cur.Len() > 0 && t.X-lastEnd > 1.0 && !strings.HasPrefix(t.S, " ") {
			cur.WriteString(" ")
		}
		cur.WriteString(t.S)
		lastEnd = t.X + t.W
		if t.FontSize > curSize {
			curSize = t.FontSize
		}
	}
	flush()
	return rows
}
