// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"os/exec"
	"strings"
)

// PdftotextExtractor shells out to the poppler pdftotext binary. It is a
// last-resort backend: the output is plain text without any layout signal,
// so no headings are detected and the segmenter falls back to a single
// default-titled block.
type PdftotextExtractor struct{}

func (e *PdftotextExtractor) Extract(pdfPath string, opts Options) (string, error) {
	out, err := exec.Command("pdftotext", "-layout", pdfPath, "-").Output()
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext on %s: %v", ErrExtraction, pdfPath, err)
	}

	var pg []line
	for _, raw := range strings.Split(string(out), "\n") {
		pg = append(pg, line{text: raw})
	}

	pages := [][]line{pg}
	return renderSections(pages, headingThreshold(pages, opts), opts.MinSectionLen), nil
}
