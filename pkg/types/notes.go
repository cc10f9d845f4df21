// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TopicBlock is a contiguous, titled group of sentences detected in the
// source document. Sentences are whitespace-normalized and preserve source
// order. A document without detectable headers yields a single block with a
// default title.
type TopicBlock struct {
	Title     string   `json:"title" yaml:"title"`
	Sentences []string `json:"sentences" yaml:"sentences"`
}

// NoteBlock is the paraphrased counterpart of a TopicBlock: the same title
// with one bullet per source sentence, in source order. A bullet may be empty
// when its source sentence was blank or its generation failed; renderers skip
// empty bullets but keep the title.
type NoteBlock struct {
	Title   string   `json:"title" yaml:"title"`
	Bullets []string `json:"bullets" yaml:"bullets"`
}

// DocumentResult records the outcome of summarizing one input document.
type DocumentResult struct {
	// Path is the input PDF path.
	Path string `json:"path" yaml:"path"`

	// Index is the position of the document in the input list. Results
	// are ordered by Index regardless of processing completion order.
	Index int `json:"index" yaml:"index"`

	// Output is the rendered notes text. Non-empty even on partial
	// failure when some blocks were produced.
	Output string `json:"-" yaml:"-"`

	// Blocks is the number of topic blocks in the output.
	Blocks int `json:"blocks" yaml:"blocks"`

	// FailedBlocks counts blocks left without bullets by generation
	// failures that survived the retry.
	FailedBlocks int `json:"failed_blocks" yaml:"failed_blocks"`

	// Cached reports that the output was served from the notes cache.
	Cached bool `json:"cached" yaml:"cached"`

	// Err is the fatal per-document error, if any. A document with a
	// non-nil Err produced no output; siblings are unaffected.
	Err error `json:"-" yaml:"-"`
}
