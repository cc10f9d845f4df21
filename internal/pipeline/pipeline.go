// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates extraction, segmentation, paraphrasing, and
// output assembly across one or more documents. Extraction fans out over a
// bounded worker pool; paraphrasing for all documents funnels through the
// single provisioned model handle, in input order.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/notedistill/internal/extract"
	"github.com/pdiddy/notedistill/internal/model"
	"github.com/pdiddy/notedistill/internal/notecache"
	"github.com/pdiddy/notedistill/internal/paraphrase"
	"github.com/pdiddy/notedistill/internal/segment"
	"github.com/pdiddy/notedistill/pkg/types"
)

const defaultWorkers = 2

// provision obtains the shared model handle. Tests swap it for a fake.
var provision = model.Provision

// extractOutcome is one worker's result, stored in its input-index slot.
type extractOutcome struct {
	text string
	err  error
}

// Run summarizes the given documents and returns one result per input path,
// in input order regardless of extraction completion order. A failure in one
// document never aborts its siblings; per-document errors land in the
// results. Run itself errors only on whole-run conditions: invalid
// configuration, no inputs, or a model that cannot be provisioned.
func Run(ctx context.Context, paths []string, extractor extract.Extractor, cfg types.PipelineConfig, w io.Writer) ([]types.DocumentResult, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input documents")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var handle *model.Handle
	if cfg.Paraphrase {
		h, err := provision(cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("provisioning model: %w", err)
		}
		handle = h
		fmt.Fprintf(w, "model ready: device=%s precision=%s\n", h.Device, h.Precision)
	}

	var cache *notecache.Store
	if cfg.CacheDir != "" && !cfg.NoCache {
		c, err := notecache.Open(cfg.CacheDir)
		if err != nil {
			fmt.Fprintf(w, "warning: notes cache unavailable: %v\n", err)
		} else {
			cache = c
			defer cache.Close()
		}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	opts := extract.Options{
		Fast:          cfg.Extraction.Fast,
		SamplePages:   cfg.Extraction.SamplePages,
		MinSectionLen: cfg.Extraction.MinSectionLen,
	}

	// Indexed result slots with per-index ready signals: workers complete
	// in any order, the paraphrase loop below consumes strictly in input
	// order and may overlap with later extractions.
	outcomes := make([]extractOutcome, len(paths))
	ready := make([]chan struct{}, len(paths))
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	jobs := make(chan int)
	for n := 0; n < workers; n++ {
		go func() {
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					outcomes[i] = extractOutcome{err: err}
					close(ready[i])
					continue
				}
				text, err := extractor.Extract(paths[i], opts)
				outcomes[i] = extractOutcome{text: text, err: err}
				close(ready[i])
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i := range paths {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	results := make([]types.DocumentResult, len(paths))
	for i, path := range paths {
		select {
		case <-ctx.Done():
			results[i] = types.DocumentResult{Path: path, Index: i, Err: ctx.Err()}
			continue
		case <-ready[i]:
		}

		out := outcomes[i]
		if out.err != nil {
			fmt.Fprintf(w, "failed     %s: %v\n", path, out.err)
			results[i] = types.DocumentResult{Path: path, Index: i, Err: out.err}
			continue
		}

		res := summarizeDocument(ctx, path, out.text, handle, cache, cfg, w)
		res.Index = i
		results[i] = res
	}

	s := Summarize(results)
	fmt.Fprintf(w, "\nRun summary: %d summarized, %d cached, %d partial, %d failed (total: %d)\n",
		s.Summarized, s.Cached, s.Partial, s.Failed, s.Total())

	return results, nil
}

// summarizeDocument runs the per-document stages on already-extracted text:
// cache lookup, topic segmentation, paraphrasing with the driver-level
// batch-size-reduction retry, and rendering.
func summarizeDocument(ctx context.Context, path, text string, handle *model.Handle, cache *notecache.Store, cfg types.PipelineConfig, w io.Writer) types.DocumentResult {
	res := types.DocumentResult{Path: path}

	hash := notecache.Hash(text)
	if cache != nil {
		if blocks, ok, err := cache.Lookup(hash); err == nil && ok {
			res.Output = Render(blocks)
			res.Blocks = len(blocks)
			res.Cached = true
			fmt.Fprintf(w, "cached     %s (%d blocks)\n", path, len(blocks))
			return res
		}
	}

	topics := segment.SplitIntoTopics(text)

	var notes []types.NoteBlock
	if handle == nil {
		notes = passthroughNotes(topics)
	} else {
		var err error
		notes, err = paraphrase.Blocks(ctx, topics, handle.Generator, cfg.Generation)
		if err != nil {
			// One retry with a reduced batch size; a smaller batch
			// often fits where the full one exhausted the device.
			reduced := cfg.Generation
			reduced.BatchSize = max(1, reduced.BatchSize/2)
			fmt.Fprintf(w, "warning: generation failed for %s (%v); retrying with batch size %d\n",
				path, err, reduced.BatchSize)

			notes, err = paraphrase.Blocks(ctx, topics, handle.Generator, reduced)
			if err != nil {
				res.FailedBlocks = countFailedBlocks(topics, notes)
				fmt.Fprintf(w, "partial    %s: %d of %d blocks incomplete: %v\n",
					path, res.FailedBlocks, len(notes), err)
			}
		}
	}

	res.Output = Render(notes)
	res.Blocks = len(notes)

	if cache != nil && res.FailedBlocks == 0 {
		if err := cache.Put(hash, path, notes); err != nil {
			fmt.Fprintf(w, "warning: cache write failed for %s: %v\n", path, err)
		}
	}
	if res.FailedBlocks == 0 {
		fmt.Fprintf(w, "summarized %s (%d blocks)\n", path, res.Blocks)
	}
	return res
}

// passthroughNotes copies sentences straight into bullets for runs with
// paraphrasing disabled.
func passthroughNotes(blocks []types.TopicBlock) []types.NoteBlock {
	notes := make([]types.NoteBlock, len(blocks))
	for i, b := range blocks {
		bullets := make([]string, len(b.Sentences))
		copy(bullets, b.Sentences)
		notes[i] = types.NoteBlock{Title: b.Title, Bullets: bullets}
	}
	return notes
}

// countFailedBlocks counts blocks left with at least one unproduced bullet
// after a failed run.
func countFailedBlocks(blocks []types.TopicBlock, notes []types.NoteBlock) int {
	failed := 0
	for i, b := range blocks {
		if i >= len(notes) {
			failed++
			continue
		}
		for j, sent := range b.Sentences {
			if strings.TrimSpace(sent) == "" {
				continue
			}
			if j < len(notes[i].Bullets) && notes[i].Bullets[j] == "" {
				failed++
				break
			}
		}
	}
	return failed
}

// Summary aggregates per-document outcomes of one run.
type Summary struct {
	Summarized int
	Cached     int
	Partial    int
	Failed     int
}

// Total returns the number of documents processed.
func (s Summary) Total() int {
	return s.Summarized + s.Cached + s.Partial + s.Failed
}

// HasFailures reports whether any document failed entirely.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Summarize tallies document results into a Summary.
func Summarize(results []types.DocumentResult) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.FailedBlocks > 0:
			s.Partial++
		case r.Cached:
			s.Cached++
		default:
			s.Summarized++
		}
	}
	return s
}
