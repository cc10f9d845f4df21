// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// The punkt tokenizer carries embedded training data and is built exactly
// once per process.
var (
	tokenizerOnce sync.Once
	tokenizer     *sentences.DefaultSentenceTokenizer
)

// tokenizeSentences splits paragraph text into trimmed sentences. If the
// punkt tokenizer cannot be constructed it degrades to a naive splitter;
// segmentation never fails on account of the tokenizer.
func tokenizeSentences(text string) []string {
	tokenizerOnce.Do(func() {
		if t, err := english.NewSentenceTokenizer(nil); err == nil {
			tokenizer = t
		}
	})

	if tokenizer == nil {
		return naiveSplit(text)
	}

	raw := tokenizer.Tokenize(text)
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// naiveSplit breaks text after sentence-final punctuation followed by a
// space. It mishandles abbreviations but keeps the pipeline running.
func naiveSplit(text string) []string {
	var out []string
	var cur strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		cur.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && (i+1 == len(runes) || runes[i+1] == ' ') {
			if t := strings.TrimSpace(cur.String()); t != "" {
				out = append(out, t)
			}
			cur.Reset()
		}
	}
	if t := strings.TrimSpace(cur.String()); t != "" {
		out = append(out, t)
	}
	return out
}
