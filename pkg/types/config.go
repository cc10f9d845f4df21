// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Device identifies where paraphrase generation executes.
type Device string

const (
	// DeviceAuto defers device selection to runtime detection.
	DeviceAuto Device = ""
	DeviceCPU  Device = "cpu"
	DeviceCUDA Device = "cuda"
)

// Precision selects the numeric precision of generation compute.
// Half precision is preferred on an accelerator for throughput and memory.
type Precision string

const (
	// PrecisionAuto defers the choice to the resolved device.
	PrecisionAuto Precision = ""
	PrecisionFull Precision = "full"
	PrecisionHalf Precision = "half"
)

// GenerationConfig holds the pass-through generation parameters. They are
// honored verbatim by the generation backend since they affect output
// reproducibility for a fixed model and input.
type GenerationConfig struct {
	// MaxLength bounds the generated output length in tokens (default 64).
	MaxLength int `json:"max_length" yaml:"max_length"`

	// NumBeams is the beam search width. 1 means deterministic greedy
	// decoding; larger values trade latency for quality (default 1).
	NumBeams int `json:"num_beams" yaml:"num_beams"`

	// BatchSize is the maximum number of chunks submitted in one
	// generation call (default 16).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// DefaultGenerationConfig returns the generation defaults.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{MaxLength: 64, NumBeams: 1, BatchSize: 16}
}

// Validate checks the generation parameters once at pipeline start.
func (c GenerationConfig) Validate() error {
	if c.MaxLength <= 0 {
		return fmt.Errorf("generation: max_length must be positive, got %d", c.MaxLength)
	}
	if c.NumBeams <= 0 {
		return fmt.Errorf("generation: num_beams must be positive, got %d", c.NumBeams)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("generation: batch_size must be positive, got %d", c.BatchSize)
	}
	return nil
}

// ModelBackend identifies the generation backend implementation.
type ModelBackend string

const (
	// BackendServer talks to a local seq2seq inference server over HTTP.
	BackendServer ModelBackend = "server"
	// BackendOpenAI talks to an OpenAI-compatible chat completion API.
	BackendOpenAI ModelBackend = "openai"
)

// ModelConfig holds settings for provisioning the paraphrase model.
type ModelConfig struct {
	// Backend selects the generation backend: server or openai.
	Backend ModelBackend `json:"backend" yaml:"backend"`

	// Endpoint is the base URL of the inference server (server backend).
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Model names the model to use (e.g. a paraphrase fine-tune). The
	// server backend passes it through; the openai backend requires it.
	// Config files address it as model.name.
	Model string `json:"name" yaml:"name"`

	// APIKey authenticates against the openai backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Device pins generation to cpu or cuda. Empty means auto-detect.
	Device Device `json:"device" yaml:"device"`

	// Precision pins the compute precision. Empty means full on cpu,
	// half on cuda.
	Precision Precision `json:"precision" yaml:"precision"`
}

// Validate checks the model settings.
func (c ModelConfig) Validate() error {
	switch c.Backend {
	case BackendServer, BackendOpenAI:
	case "":
		return fmt.Errorf("model: backend is required (server or openai)")
	default:
		return fmt.Errorf("model: unknown backend %q", c.Backend)
	}
	switch c.Device {
	case DeviceAuto, DeviceCPU, DeviceCUDA:
	default:
		return fmt.Errorf("model: unknown device %q", c.Device)
	}
	switch c.Precision {
	case PrecisionAuto, PrecisionFull, PrecisionHalf:
	default:
		return fmt.Errorf("model: unknown precision %q", c.Precision)
	}
	return nil
}

// ExtractionConfig holds settings for the PDF extraction stage.
type ExtractionConfig struct {
	// Backend selects the extraction backend: native, mupdf, or pdftotext.
	Backend string `json:"backend" yaml:"backend"`

	// Fast estimates the heading font threshold from a small page sample
	// instead of scanning the whole document (default true).
	Fast bool `json:"fast" yaml:"fast"`

	// SamplePages is the number of pages sampled in fast mode (default 3).
	SamplePages int `json:"sample_pages" yaml:"sample_pages"`

	// MinSectionLen drops topic sections whose body is shorter than this
	// many characters (default 100). Filters slide noise and footers.
	MinSectionLen int `json:"min_section_len" yaml:"min_section_len"`
}

// DefaultExtractionConfig returns the extraction defaults.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{Backend: "native", Fast: true, SamplePages: 3, MinSectionLen: 100}
}

// Validate checks the extraction settings.
func (c ExtractionConfig) Validate() error {
	switch c.Backend {
	case "native", "mupdf", "pdftotext":
	default:
		return fmt.Errorf("extraction: unknown backend %q", c.Backend)
	}
	if c.Fast && c.SamplePages <= 0 {
		return fmt.Errorf("extraction: sample_pages must be positive in fast mode, got %d", c.SamplePages)
	}
	if c.MinSectionLen < 0 {
		return fmt.Errorf("extraction: min_section_len must not be negative, got %d", c.MinSectionLen)
	}
	return nil
}

// PipelineConfig groups all stage configurations for a summarization run.
type PipelineConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Model      ModelConfig      `json:"model" yaml:"model"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`

	// Workers is the number of concurrent extraction workers (default 2).
	// Generation is never parallelized; all documents funnel through the
	// single provisioned model handle.
	Workers int `json:"workers" yaml:"workers"`

	// OutputPath, when set, concatenates all document outputs into one
	// file. When empty each input produces a sibling *_paraphrased.txt.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// CacheDir is the directory holding the notes cache database.
	// Empty disables caching.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// Paraphrase toggles the generation stage. When false, bullets are
	// the extracted sentences themselves and no model is provisioned.
	Paraphrase bool `json:"paraphrase" yaml:"paraphrase"`

	// NoCache bypasses the notes cache for this run.
	NoCache bool `json:"no_cache" yaml:"no_cache"`
}

// Validate checks all stage configurations once at pipeline start.
func (c PipelineConfig) Validate() error {
	if err := c.Extraction.Validate(); err != nil {
		return err
	}
	if c.Paraphrase {
		if err := c.Model.Validate(); err != nil {
			return err
		}
		if err := c.Generation.Validate(); err != nil {
			return err
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("pipeline: workers must not be negative, got %d", c.Workers)
	}
	return nil
}
