// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pdiddy/notedistill/pkg/types"
)

var (
	handleMu sync.Mutex
	handle   atomic.Pointer[Handle]

	// newBackend builds the Generator for a resolved config. Tests swap it
	// for a counting fake.
	newBackend = newGenerator
)

// Provision returns the shared generation handle, loading the backend on
// first call. Concurrent first-time callers block on one load and all
// receive the same handle; after initialization the cost is one atomic load.
// A load failure wraps ErrModelLoad and leaves the handle unset, so nothing
// is cached on failure.
func Provision(cfg types.ModelConfig) (*Handle, error) {
	if h := handle.Load(); h != nil {
		return h, nil
	}

	handleMu.Lock()
	defer handleMu.Unlock()

	// Another caller may have finished the load while we waited.
	if h := handle.Load(); h != nil {
		return h, nil
	}

	resolved := Resolve(cfg)
	gen, err := newBackend(resolved)
	if err != nil {
		return nil, fmt.Errorf("provisioning %s backend: %w", resolved.Backend, err)
	}

	h := &Handle{
		Generator: gen,
		Device:    resolved.Device,
		Precision: resolved.Precision,
		Model:     resolved.Model,
	}
	handle.Store(h)
	return h, nil
}

// Reset discards the shared handle so the next Provision call loads again.
// For tests; production handles live for the process lifetime.
func Reset() {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle.Store(nil)
}

// newGenerator dispatches to the configured backend implementation.
func newGenerator(cfg types.ModelConfig) (Generator, error) {
	switch cfg.Backend {
	case types.BackendServer:
		return newServerGenerator(cfg)
	case types.BackendOpenAI:
		return newOpenAIGenerator(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrModelLoad, cfg.Backend)
	}
}
