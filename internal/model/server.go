// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/notedistill/internal/httputil"
	"github.com/pdiddy/notedistill/pkg/types"
)

const serverTimeout = 120 * time.Second

// ServerGenerator talks to a local seq2seq inference server over HTTP. The
// server accepts a whole batch in one POST /generate call and applies the
// requested device and precision itself; one server instance owns the
// accelerator, which is why generation is never parallelized across callers.
type ServerGenerator struct {
	endpoint  string
	client    *http.Client
	model     string
	device    types.Device
	precision types.Precision
}

// newServerGenerator health-checks the inference server before returning.
// An unreachable or unhealthy server is a load failure: the model is simply
// not available.
func newServerGenerator(cfg types.ModelConfig) (*ServerGenerator, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: server backend requires an endpoint", ErrModelLoad)
	}

	g := &ServerGenerator{
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		client:    &http.Client{Timeout: serverTimeout},
		model:     cfg.Model,
		device:    cfg.Device,
		precision: cfg.Precision,
	}

	resp, err := g.client.Get(g.endpoint + "/health")
	if err != nil {
		return nil, fmt.Errorf("%w: inference server unreachable at %s: %v", ErrModelLoad, g.endpoint, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: inference server unhealthy at %s: HTTP %d", ErrModelLoad, g.endpoint, resp.StatusCode)
	}

	return g, nil
}

// generateRequest is the wire format of one batched generation call.
type generateRequest struct {
	Inputs    []string `json:"inputs"`
	Model     string   `json:"model,omitempty"`
	MaxLength int      `json:"max_length"`
	NumBeams  int      `json:"num_beams"`
	Device    string   `json:"device,omitempty"`
	Precision string   `json:"precision,omitempty"`
}

type generateResponse struct {
	Outputs []string `json:"outputs"`
}

// Generate submits one batch and decodes the batch response. Rate-limit and
// warm-up responses are retried by the HTTP helper; other failures surface
// to the caller, which owns the batch-size-reduction retry policy.
func (g *ServerGenerator) Generate(ctx context.Context, inputs []string, cfg types.GenerationConfig) ([]string, error) {
	body, err := json.Marshal(generateRequest{
		Inputs:    inputs,
		Model:     g.model,
		MaxLength: cfg.MaxLength,
		NumBeams:  cfg.NumBeams,
		Device:    string(g.device),
		Precision: string(g.precision),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, g.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("calling inference server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inference server returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding generation response: %w", err)
	}
	if len(out.Outputs) != len(inputs) {
		return nil, fmt.Errorf("inference server returned %d outputs for %d inputs", len(out.Outputs), len(inputs))
	}
	return out.Outputs, nil
}
