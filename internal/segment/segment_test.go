// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"strings"
	"testing"

	"github.com/pdiddy/notedistill/pkg/types"
)

func TestSplitIntoTopics(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []types.TopicBlock
	}{
		{
			name: "two titled topics",
			raw:  "<Intro>\nThis is a test. It has two sentences.\n<Details>\nMore content here.",
			want: []types.TopicBlock{
				{Title: "Intro", Sentences: []string{"This is a test.", "It has two sentences."}},
				{Title: "Details", Sentences: []string{"More content here."}},
			},
		},
		{
			name: "no headers yields one untitled block",
			raw:  "First sentence. Second sentence.",
			want: []types.TopicBlock{
				{Title: UntitledTopic, Sentences: []string{"First sentence.", "Second sentence."}},
			},
		},
		{
			name: "consecutive headers keep an empty block",
			raw:  "<One>\n<Two>\nContent for two.",
			want: []types.TopicBlock{
				{Title: "One"},
				{Title: "Two", Sentences: []string{"Content for two."}},
			},
		},
		{
			name: "preamble before first header is kept",
			raw:  "Loose opening sentence.\n<Topic>\nBody sentence.",
			want: []types.TopicBlock{
				{Title: UntitledTopic, Sentences: []string{"Loose opening sentence."}},
				{Title: "Topic", Sentences: []string{"Body sentence."}},
			},
		},
		{
			name: "empty header text gets a default title",
			raw:  "<>\nSome body text here.",
			want: []types.TopicBlock{
				{Title: "Unnamed Topic", Sentences: []string{"Some body text here."}},
			},
		},
		{
			name: "surrounding dashes stripped from titles",
			raw:  "<-- Summary -->\nBody sentence.",
			want: []types.TopicBlock{
				{Title: "Summary", Sentences: []string{"Body sentence."}},
			},
		},
		{
			name: "sentence broken across lines is merged",
			raw:  "<T>\nThe sentence continues\nacross extraction line breaks.",
			want: []types.TopicBlock{
				{Title: "T", Sentences: []string{"The sentence continues across extraction line breaks."}},
			},
		},
		{
			name: "dash separators become colons",
			raw:  "<T>\nCaching - stores results for reuse.",
			want: []types.TopicBlock{
				{Title: "T", Sentences: []string{"Caching: stores results for reuse."}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitIntoTopics(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d blocks, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i].Title != tt.want[i].Title {
					t.Errorf("block %d title = %q, want %q", i, got[i].Title, tt.want[i].Title)
				}
				if strings.Join(got[i].Sentences, "|") != strings.Join(tt.want[i].Sentences, "|") {
					t.Errorf("block %d sentences = %q, want %q", i, got[i].Sentences, tt.want[i].Sentences)
				}
			}
		})
	}
}

func TestSplitIntoTopics_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   \n\t\n  "} {
		if got := SplitIntoTopics(raw); len(got) != 0 {
			t.Errorf("SplitIntoTopics(%q) = %+v, want no blocks", raw, got)
		}
	}
}

// No sentence may be lost or duplicated: the concatenated block sentences
// must reproduce the normalized input text.
func TestSplitIntoTopics_PreservesAllText(t *testing.T) {
	raw := "<A>\nOne here. Two here.\nStill two's paragraph continues. Three here.\n<B>\nFour here. Five here."
	blocks := SplitIntoTopics(raw)

	var all []string
	for _, b := range blocks {
		all = append(all, b.Sentences...)
	}
	joined := strings.Join(all, " ")

	want := "One here. Two here. Still two's paragraph continues. Three here. Four here. Five here."
	if joined != want {
		t.Errorf("reassembled text = %q, want %q", joined, want)
	}
}

func TestTokenizeSentences_Abbreviations(t *testing.T) {
	got := tokenizeSentences("Dr. Smith wrote this. It is short.")
	if len(got) != 2 {
		t.Fatalf("got %d sentences %q, want 2", len(got), got)
	}
	if got[0] != "Dr. Smith wrote this." {
		t.Errorf("first sentence = %q", got[0])
	}
}

func TestNaiveSplit(t *testing.T) {
	got := naiveSplit("One here. Two here! Three here?")
	want := []string{"One here.", "Two here!", "Three here?"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("naiveSplit = %q, want %q", got, want)
	}
}
