// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paraphrase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/notedistill/pkg/types"
)

// fakeGenerator records every batch it receives and prefixes each input so
// tests can trace bullets back to their source sentences.
type fakeGenerator struct {
	batchSizes []int
	failOnCall int // 1-based call number to fail on; 0 never fails
	calls      int
}

func (f *fakeGenerator) Generate(_ context.Context, inputs []string, _ types.GenerationConfig) ([]string, error) {
	f.calls++
	f.batchSizes = append(f.batchSizes, len(inputs))
	if f.failOnCall > 0 && f.calls == f.failOnCall {
		return nil, errors.New("device out of memory")
	}
	out := make([]string, len(inputs))
	for i, in := range inputs {
		out[i] = "P: " + in
	}
	return out, nil
}

func genConfig(batchSize int) types.GenerationConfig {
	return types.GenerationConfig{MaxLength: 64, NumBeams: 1, BatchSize: batchSize}
}

func TestBlocks_BatchPartitioning(t *testing.T) {
	// 50 sentences with batch size 16 must produce exactly 4 calls of
	// sizes 16, 16, 16, 2.
	var sentences []string
	for i := 0; i < 50; i++ {
		sentences = append(sentences, fmt.Sprintf("Sentence number %d.", i))
	}
	blocks := []types.TopicBlock{{Title: "Long", Sentences: sentences}}

	gen := &fakeGenerator{}
	notes, err := Blocks(context.Background(), blocks, gen, genConfig(16))
	if err != nil {
		t.Fatal(err)
	}

	if gen.calls != 4 {
		t.Errorf("generation calls = %d, want 4", gen.calls)
	}
	wantSizes := []int{16, 16, 16, 2}
	for i, want := range wantSizes {
		if gen.batchSizes[i] != want {
			t.Errorf("batch %d size = %d, want %d", i, gen.batchSizes[i], want)
		}
	}
	if len(notes[0].Bullets) != 50 {
		t.Fatalf("bullets = %d, want 50", len(notes[0].Bullets))
	}
	for i, b := range notes[0].Bullets {
		if b != "P: "+sentences[i] {
			t.Fatalf("bullet %d = %q out of order", i, b)
		}
	}
}

func TestBlocks_EmptyChunksSkipGeneration(t *testing.T) {
	blocks := []types.TopicBlock{
		{Title: "Blanks", Sentences: []string{"", "   ", "\t"}},
		{Title: "Empty"},
	}

	gen := &fakeGenerator{}
	notes, err := Blocks(context.Background(), blocks, gen, genConfig(8))
	if err != nil {
		t.Fatal(err)
	}

	if gen.calls != 0 {
		t.Errorf("generation calls = %d, want 0 for blank-only input", gen.calls)
	}
	if len(notes) != 2 {
		t.Fatalf("notes = %d blocks, want 2", len(notes))
	}
	if notes[0].Title != "Blanks" || notes[1].Title != "Empty" {
		t.Errorf("titles not preserved: %+v", notes)
	}
	for _, b := range notes[0].Bullets {
		if b != "" {
			t.Errorf("blank sentence produced bullet %q", b)
		}
	}
	if len(notes[1].Bullets) != 0 {
		t.Errorf("empty block gained bullets: %q", notes[1].Bullets)
	}
}

func TestBlocks_TitlesAndOrderPreserved(t *testing.T) {
	blocks := []types.TopicBlock{
		{Title: "Alpha", Sentences: []string{"A one.", "A two."}},
		{Title: "Beta", Sentences: []string{"B one."}},
		{Title: "Gamma", Sentences: []string{"C one.", "C two.", "C three."}},
	}

	gen := &fakeGenerator{}
	notes, err := Blocks(context.Background(), blocks, gen, genConfig(2))
	if err != nil {
		t.Fatal(err)
	}

	for i, b := range blocks {
		if notes[i].Title != b.Title {
			t.Errorf("block %d title = %q, want %q", i, notes[i].Title, b.Title)
		}
		for j, sent := range b.Sentences {
			if notes[i].Bullets[j] != "P: "+sent {
				t.Errorf("bullet (%d,%d) = %q, want paraphrase of %q", i, j, notes[i].Bullets[j], sent)
			}
		}
	}
}

// Batch membership must not change per-chunk output: processing with any
// batch size yields the same bullets as one big batch.
func TestBlocks_BatchSizeInvariant(t *testing.T) {
	var sentences []string
	for i := 0; i < 23; i++ {
		sentences = append(sentences, fmt.Sprintf("Invariant sentence %d.", i))
	}
	blocks := []types.TopicBlock{{Title: "T", Sentences: sentences}}

	whole, err := Blocks(context.Background(), blocks, &fakeGenerator{}, genConfig(100))
	if err != nil {
		t.Fatal(err)
	}

	for _, size := range []int{1, 5, 16} {
		split, err := Blocks(context.Background(), blocks, &fakeGenerator{}, genConfig(size))
		if err != nil {
			t.Fatal(err)
		}
		if strings.Join(split[0].Bullets, "|") != strings.Join(whole[0].Bullets, "|") {
			t.Errorf("batch size %d changed outputs", size)
		}
	}
}

func TestBlocks_FailureKeepsEarlierBatches(t *testing.T) {
	var sentences []string
	for i := 0; i < 10; i++ {
		sentences = append(sentences, fmt.Sprintf("Sentence %d.", i))
	}
	blocks := []types.TopicBlock{{Title: "T", Sentences: sentences}}

	gen := &fakeGenerator{failOnCall: 2}
	notes, err := Blocks(context.Background(), blocks, gen, genConfig(4))
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("err = %v, want ErrGeneration", err)
	}

	// First batch of 4 completed before the failure.
	for j := 0; j < 4; j++ {
		if notes[0].Bullets[j] == "" {
			t.Errorf("bullet %d lost from completed batch", j)
		}
	}
	for j := 4; j < 10; j++ {
		if notes[0].Bullets[j] != "" {
			t.Errorf("bullet %d = %q produced after failure", j, notes[0].Bullets[j])
		}
	}
}

// lengthLiar returns the wrong number of outputs.
type lengthLiar struct{}

func (lengthLiar) Generate(_ context.Context, inputs []string, _ types.GenerationConfig) ([]string, error) {
	return make([]string, len(inputs)+1), nil
}

func TestBlocks_OutputLengthMismatch(t *testing.T) {
	blocks := []types.TopicBlock{{Title: "T", Sentences: []string{"One."}}}
	_, err := Blocks(context.Background(), blocks, lengthLiar{}, genConfig(4))
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("err = %v, want ErrGeneration", err)
	}
}
