// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns PDF files into topic-marked raw text. Headings are
// detected by font size and emitted as <TITLE> marker lines for the segmenter;
// body text follows each marker. Different backends (native, mupdf, pdftotext)
// implement the Extractor interface.
package extract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExtraction marks a PDF that could not be read or parsed. Fatal for that
// document only; sibling documents in a batch are unaffected.
var ErrExtraction = errors.New("pdf extraction failed")

// minHeadingSize is the floor for the heading font-size threshold. Lines must
// exceed both this and the derived threshold to count as headings.
const minHeadingSize = 14.0

// Options controls extraction behavior for one document.
type Options struct {
	// Fast estimates the heading threshold from a small page sample,
	// which speeds up large PDFs considerably.
	Fast bool

	// SamplePages is the number of pages sampled in fast mode.
	SamplePages int

	// MinSectionLen drops sections whose body is shorter than this many
	// characters, together with their heading.
	MinSectionLen int
}

// Extractor reads a PDF and returns its text with <TITLE> topic markers.
type Extractor interface {
	Extract(pdfPath string, opts Options) (string, error)
}

// ForBackend returns the extractor for a configured backend name.
func ForBackend(name string) (Extractor, error) {
	switch name {
	case "native":
		return &NativeExtractor{}, nil
	case "mupdf":
		return &MuPDFExtractor{}, nil
	case "pdftotext":
		return &PdftotextExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extraction backend %q", name)
	}
}

// line is one visual row of page text with its dominant font size. Backends
// without font information report size 0, which keeps every line below the
// heading threshold.
type line struct {
	text string
	size float64
}

// headingThreshold derives the font-size cutoff for headings: the most common
// body size on the sampled pages plus a margin, floored at minHeadingSize.
func headingThreshold(pages [][]line, opts Options) float64 {
	sample := pages
	if opts.Fast && opts.SamplePages > 0 && opts.SamplePages < len(pages) {
		sample = pages[:opts.SamplePages]
	}

	counts := make(map[float64]int)
	for _, pg := range sample {
		for _, ln := range pg {
			if ln.size <= 0 {
				continue
			}
			// Half-point buckets; PDFs rarely use finer sizes.
			counts[roundHalf(ln.size)]++
		}
	}

	var dominant float64
	best := 0
	for size, n := range counts {
		if n > best || (n == best && size < dominant) {
			dominant, best = size, n
		}
	}

	threshold := dominant + 1.5
	if threshold < minHeadingSize {
		threshold = minHeadingSize
	}
	return threshold
}

func roundHalf(v float64) float64 {
	return float64(int(v*2+0.5)) / 2
}

// section groups a detected heading with the body lines that follow it. An
// empty title marks preamble content before the first heading.
type section struct {
	title string
	body  []string
}

// renderSections assembles lines into <TITLE>-marked text. Sections with less
// than minLen characters of body are dropped along with their heading, which
// filters slide footers and stray large-font fragments.
func renderSections(pages [][]line, threshold float64, minLen int) string {
	secs := []section{{}}
	for _, pg := range pages {
		for _, ln := range pg {
			text := strings.TrimSpace(ln.text)
			if len(text) < 3 {
				continue
			}
			if ln.size > threshold {
				secs = append(secs, section{title: text})
				continue
			}
			last := len(secs) - 1
			secs[last].body = append(secs[last].body, text)
		}
	}

	var b strings.Builder
	for _, sec := range secs {
		body := strings.Join(sec.body, "\n")
		if sec.title == "" {
			// Preamble content is kept unconditionally.
			if strings.TrimSpace(body) != "" {
				b.WriteString(body)
				b.WriteString("\n")
			}
			continue
		}
		if len(body) < minLen {
			continue
		}
		fmt.Fprintf(&b, "\n<%s>\n%s\n", strings.ToUpper(sec.title), body)
	}
	return b.String()
}
