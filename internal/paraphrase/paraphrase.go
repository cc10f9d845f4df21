// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paraphrase drives the generation backend across topic blocks. It
// flattens block sentences into chunks with origin coordinates, submits them
// in bounded batches, and scatters the resulting bullets back into their
// originating blocks in source order.
package paraphrase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/notedistill/internal/model"
	"github.com/pdiddy/notedistill/pkg/types"
)

// ErrGeneration marks a failed generation call. The pipeline driver owns the
// recovery policy (one retry with a reduced batch size); this package only
// reports the failure along with whatever bullets were already produced.
var ErrGeneration = errors.New("generation failed")

// chunk is one unit of text headed for the generator, with the coordinate it
// scatters back to.
type chunk struct {
	text  string
	block int
	pos   int
}

// Blocks paraphrases every sentence of every topic block. The returned note
// blocks mirror the input blocks one-to-one: same titles, same order, one
// bullet per sentence. Empty and whitespace-only sentences become empty
// bullets without touching the generator. Blocks with no sentences keep
// their titles and an empty bullet list.
//
// On a generation failure Blocks returns the partially-filled note blocks
// together with an error wrapping ErrGeneration; bullets from batches that
// completed before the failure are retained.
func Blocks(ctx context.Context, blocks []types.TopicBlock, gen model.Generator, cfg types.GenerationConfig) ([]types.NoteBlock, error) {
	notes := make([]types.NoteBlock, len(blocks))
	var pending []chunk
	for i, b := range blocks {
		notes[i] = types.NoteBlock{Title: b.Title, Bullets: make([]string, len(b.Sentences))}
		for j, sent := range b.Sentences {
			if strings.TrimSpace(sent) == "" {
				continue
			}
			pending = append(pending, chunk{text: sent, block: i, pos: j})
		}
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	for start := 0; start < len(pending); start += batchSize {
		end := min(start+batchSize, len(pending))
		batch := pending[start:end]

		inputs := make([]string, len(batch))
		for k, c := range batch {
			inputs[k] = c.text
		}

		outputs, err := gen.Generate(ctx, inputs, cfg)
		if err != nil {
			return notes, fmt.Errorf("%w: batch of %d starting at chunk %d: %v", ErrGeneration, len(batch), start, err)
		}
		if len(outputs) != len(inputs) {
			return notes, fmt.Errorf("%w: batch starting at chunk %d returned %d outputs for %d inputs", ErrGeneration, start, len(outputs), len(inputs))
		}

		for k, out := range outputs {
			c := batch[k]
			notes[c.block].Bullets[c.pos] = strings.TrimSpace(out)
		}
	}

	return notes, nil
}
