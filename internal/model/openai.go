// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/notedistill/pkg/types"
)

// paraphraseInstruction is the system prompt for chat-based paraphrasing.
const paraphraseInstruction = "Paraphrase the user's sentence into one short, clear study note. " +
	"Reply with the paraphrase only, no preamble and no quotation marks."

// DefaultOpenAIModel is used when no model is configured for the openai backend.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIGenerator paraphrases through an OpenAI-compatible chat API. The
// chat endpoint takes one prompt at a time, so a batch is iterated within a
// single Generate call; order and length of the output still match the
// input, which is the contract callers rely on. Device and precision are
// resolved for reporting only, since a remote API owns its own placement.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func newOpenAIGenerator(cfg types.ModelConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai backend requires an API key", ErrModelLoad)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIGenerator{client: openai.NewClient(cfg.APIKey), model: model}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, inputs []string, cfg types.GenerationConfig) ([]string, error) {
	// Beam count 1 maps to deterministic sampling; anything wider gets a
	// non-zero temperature since the API has no beam parameter.
	var temperature float32
	if cfg.NumBeams > 1 {
		temperature = 0.7
	}

	outputs := make([]string, len(inputs))
	for i, input := range inputs {
		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       g.model,
			MaxTokens:   cfg.MaxLength,
			Temperature: temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: paraphraseInstruction},
				{Role: openai.ChatMessageRoleUser, Content: input},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("chat completion for chunk %d: %w", i, err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("chat completion for chunk %d returned no choices", i)
		}
		outputs[i] = strings.TrimSpace(resp.Choices[0].Message.Content)
	}
	return outputs, nil
}
