// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model provisions the paraphrase generation capability as a shared,
// lazily-initialized process-lifetime resource: a generation backend bound to
// a resolved device and precision. Provisioning happens once; every caller
// after the first receives the same handle.
package model

import (
	"context"
	"errors"

	"github.com/pdiddy/notedistill/pkg/types"
)

// ErrModelLoad marks a generation backend that could not be provisioned.
// Fatal for the whole run; there is nothing to paraphrase with. Not retried
// internally.
var ErrModelLoad = errors.New("model load failed")

// Generator runs one batched generation call. Implementations must preserve
// input order and return exactly one output per input.
type Generator interface {
	Generate(ctx context.Context, inputs []string, cfg types.GenerationConfig) ([]string, error)
}

// Handle bundles the provisioned generation capability with the device and
// precision it was resolved to. Read-only after provisioning; safe for
// concurrent use without further locking.
type Handle struct {
	Generator Generator
	Device    types.Device
	Precision types.Precision
	Model     string
}
