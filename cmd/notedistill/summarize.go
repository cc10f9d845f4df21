// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notedistill/internal/extract"
	"github.com/pdiddy/notedistill/internal/pipeline"
	"github.com/pdiddy/notedistill/pkg/types"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [pdfs...]",
	Short: "Summarize PDFs into paraphrased note files",
	Long: `Summarize extracts topic-structured text from each PDF, splits it into
sentence groups per topic, and paraphrases the sentences into bullet notes.

Without --output each input produces a sibling <name>_paraphrased.txt file;
with --output all documents are concatenated into one file. A document that
fails is reported and skipped; its siblings still produce output.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSummarize,
}

func init() {
	f := summarizeCmd.Flags()

	f.String("output", "", "write all notes to this single file instead of per-input files")
	f.Int("workers", 2, "number of concurrent extraction workers")
	f.Int("batch-size", 16, "maximum chunks per generation call")
	f.Int("max-length", 64, "maximum generated length per bullet, in tokens")
	f.Int("num-beams", 1, "beam search width (1 = deterministic greedy decoding)")
	f.String("model-backend", "server", "generation backend: server or openai")
	f.String("endpoint", "http://localhost:8000", "inference server base URL (server backend)")
	f.String("model", "", "model name to generate with")
	f.String("device", "", "pin generation device: cpu or cuda (default: auto-detect)")
	f.String("precision", "", "pin compute precision: full or half (default: per device)")
	f.String("extract-backend", "native", "extraction backend: native, mupdf, or pdftotext")
	f.Bool("fast", true, "estimate the heading threshold from a small page sample")
	f.Int("sample-pages", 3, "pages sampled in fast mode")
	f.String("cache-dir", ".notedistill", "notes cache directory (empty disables caching)")
	f.Bool("no-paraphrase", false, "emit extracted sentences as bullets without paraphrasing")
	f.Bool("no-cache", false, "bypass the notes cache for this run")

	viper.BindPFlag("output", f.Lookup("output"))
	viper.BindPFlag("workers", f.Lookup("workers"))
	viper.BindPFlag("cache_dir", f.Lookup("cache-dir"))
	viper.BindPFlag("generation.batch_size", f.Lookup("batch-size"))
	viper.BindPFlag("generation.max_length", f.Lookup("max-length"))
	viper.BindPFlag("generation.num_beams", f.Lookup("num-beams"))
	viper.BindPFlag("model.backend", f.Lookup("model-backend"))
	viper.BindPFlag("model.endpoint", f.Lookup("endpoint"))
	viper.BindPFlag("model.name", f.Lookup("model"))
	viper.BindPFlag("model.device", f.Lookup("device"))
	viper.BindPFlag("model.precision", f.Lookup("precision"))
	viper.BindPFlag("extraction.backend", f.Lookup("extract-backend"))
	viper.BindPFlag("extraction.fast", f.Lookup("fast"))
	viper.BindPFlag("extraction.sample_pages", f.Lookup("sample-pages"))

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	noParaphrase, _ := cmd.Flags().GetBool("no-paraphrase")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	cfg := types.PipelineConfig{
		Extraction: types.ExtractionConfig{
			Backend:       viper.GetString("extraction.backend"),
			Fast:          viper.GetBool("extraction.fast"),
			SamplePages:   viper.GetInt("extraction.sample_pages"),
			MinSectionLen: types.DefaultExtractionConfig().MinSectionLen,
		},
		Model: types.ModelConfig{
			Backend:   types.ModelBackend(viper.GetString("model.backend")),
			Endpoint:  viper.GetString("model.endpoint"),
			Model:     viper.GetString("model.name"),
			APIKey:    apiKey(),
			Device:    types.Device(viper.GetString("model.device")),
			Precision: types.Precision(viper.GetString("model.precision")),
		},
		Generation: types.GenerationConfig{
			MaxLength: viper.GetInt("generation.max_length"),
			NumBeams:  viper.GetInt("generation.num_beams"),
			BatchSize: viper.GetInt("generation.batch_size"),
		},
		Workers:    viper.GetInt("workers"),
		OutputPath: viper.GetString("output"),
		CacheDir:   viper.GetString("cache_dir"),
		Paraphrase: !noParaphrase,
		NoCache:    noCache,
	}

	extractor, err := extract.ForBackend(cfg.Extraction.Backend)
	if err != nil {
		return err
	}

	results, err := pipeline.Run(context.Background(), args, extractor, cfg, os.Stdout)
	if err != nil {
		return err
	}

	if err := pipeline.WriteOutputs(results, cfg.OutputPath, os.Stdout); err != nil {
		return err
	}

	if s := pipeline.Summarize(results); s.HasFailures() {
		return fmt.Errorf("%d document(s) failed", s.Failed)
	}
	return nil
}

// apiKey resolves the openai backend key: config value, then the loaded
// secret, then the conventional environment variable.
func apiKey() string {
	if key := secretDefault("openai-api-key", viper.GetString("model.api_key")); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}
