// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment partitions extracted raw text into topic blocks. Topic
// boundaries are <TITLE> marker lines; everything between two markers is
// merged into paragraph text and re-split into sentences, since PDF
// extraction routinely breaks sentences mid-line.
package segment

import (
	"regexp"
	"strings"

	"github.com/pdiddy/notedistill/pkg/types"
)

const (
	// UntitledTopic titles the implicit block holding content that appears
	// before any detected header (or a whole document without headers).
	UntitledTopic = "Untitled"

	// unnamedTopic titles blocks whose header marker carried no text.
	unnamedTopic = "Unnamed Topic"
)

var (
	// headerRE matches a topic marker line: text enclosed in angle brackets.
	headerRE = regexp.MustCompile(`^<(.*)>$`)

	// spaceRE collapses whitespace runs. Applied once per merged paragraph
	// rather than per line, keeping normalization linear in input size.
	spaceRE = regexp.MustCompile(`\s+`)

	// dashRE rewrites dash and bullet separators to colons so slide
	// fragments read as clauses rather than broken list items.
	dashRE = regexp.MustCompile(`\s*[-–]+\s*`)
)

// SplitIntoTopics scans raw extracted text and returns ordered topic blocks.
// Empty input yields no blocks. Input without any header markers yields one
// block titled UntitledTopic holding every sentence. Consecutive markers
// produce blocks with empty sentence lists, which downstream stages skip.
// Malformed input is never an error; unparseable text degrades to plain
// sentences.
func SplitIntoTopics(raw string) []types.TopicBlock {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var blocks []types.TopicBlock
	current := -1
	var buffer []string

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		sents := sentencesFromParagraph(strings.Join(buffer, " "))
		buffer = nil
		if len(sents) == 0 {
			return
		}
		if current < 0 {
			blocks = append(blocks, types.TopicBlock{Title: UntitledTopic})
			current = len(blocks) - 1
		}
		blocks[current].Sentences = append(blocks[current].Sentences, sents...)
	}

	for _, rawLine := range strings.Split(raw, "\n") {
		ln := strings.TrimSpace(rawLine)
		if m := headerRE.FindStringSubmatch(ln); m != nil {
			flush()
			title := strings.Trim(m[1], " \t-–—")
			if title == "" {
				title = unnamedTopic
			}
			blocks = append(blocks, types.TopicBlock{Title: title})
			current = len(blocks) - 1
			continue
		}
		if ln != "" {
			buffer = append(buffer, ln)
		}
	}
	flush()

	return blocks
}

// sentencesFromParagraph normalizes a merged paragraph and splits it into
// sentences.
func sentencesFromParagraph(par string) []string {
	par = spaceRE.ReplaceAllString(par, " ")
	par = dashRE.ReplaceAllString(par, ": ")
	par = strings.TrimSpace(par)
	if par == "" {
		return nil
	}
	return tokenizeSentences(par)
}
