package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lexgraph/lexgraph/internal/cache"
	"github.com/lexgraph/lexgraph/internal/extract"
	"github.com/lexgraph/lexgraph/internal/graphstore"
	"github.com/lexgraph/lexgraph/internal/model"
	"github.com/lexgraph/lexgraph/internal/oracle"
	"github.com/lexgraph/lexgraph/internal/pipeline"
	"github.com/lexgraph/lexgraph/internal/segment"
	"github.com/lexgraph/lexgraph/internal/worker"
)

var (
	oracleProvider   string
	oracleModel      string
	outputDir        string
	extractTimeout   time.Duration
	concurrency      int
	noCache          bool
	noGraph          bool
	qualityThreshold float64
	maxBacktrack     int
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file-or-dir>",
	Short: "Extract a knowledge graph from legal documents",
	Long: `Extract processes one document or a directory of documents:
- Parse PDF, HTML, text and Markdown files
- Segment each document into typed structural blocks
- Recognize entities and relations with the configured inference provider
- Canonicalize aliased entities and validate relations against the legal schema
- Resolve pronoun and descriptive references through the relation graph
- Review extraction quality and retry low-scoring passes with feedback
- Store the resulting graph in Neo4j and write per-document JSON results

Example:
  lexgraph extract judgment.pdf --provider openai
  lexgraph extract ./judgments --provider ollama --model qwen2.5:14b --concurrency 4
  lexgraph extract judgment.txt --provider openai --no-graph --output-dir ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Oracle flags
	extractCmd.Flags().StringVar(&oracleProvider, "provider", "", "inference provider (openai, ollama)")
	extractCmd.Flags().StringVar(&oracleModel, "model", "", "inference model name")
	extractCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the inference response cache")

	// Pipeline flags
	extractCmd.Flags().Float64Var(&qualityThreshold, "quality-threshold", 0.8, "minimum quality score to accept a pass without retrying")
	extractCmd.Flags().IntVar(&maxBacktrack, "max-backtrack", 1, "maximum quality-driven retries per document")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 30*time.Minute, "total timeout for the extraction run")
	extractCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of documents processed in parallel")

	// Output flags
	extractCmd.Flags().StringVar(&outputDir, "output-dir", "output", "directory for per-document JSON results")
	extractCmd.Flags().BoolVar(&noGraph, "no-graph", false, "skip storing results in Neo4j")
}

// loadConfig builds the configuration: defaults, then config file and
// LEXGRAPH_* environment, then flags.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring malformed configuration: %v\n", err)
	}
	cfg.Output.Verbose = verbose
	return cfg
}

// applyExtractFlags overlays flag values onto the configuration. Flags
// the user never set keep whatever the config file or environment
// resolved, so the flags > env > yaml order holds for defaults too.
func applyExtractFlags(cmd *cobra.Command, cfg *model.Config) {
	if oracleProvider != "" {
		cfg.Oracle.Provider = oracleProvider
	}
	if oracleModel != "" {
		cfg.Oracle.Model = oracleModel
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	if cmd.Flags().Changed("quality-threshold") {
		cfg.Pipeline.QualityThreshold = qualityThreshold
	}
	if cmd.Flags().Changed("max-backtrack") {
		cfg.Pipeline.MaxBacktrackAttempts = maxBacktrack
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Output.Dir = outputDir
	}
}

// buildProvider resolves the inference provider, pulling API keys from
// the environment and wrapping the provider in the layered cache.
func buildProvider(cfg *model.Config) (oracle.Provider, error) {
	switch cfg.Oracle.Provider {
	case "openai":
		if cfg.Oracle.APIKey == "" {
			cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.Oracle.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if cfg.Oracle.BaseURL == "" {
			cfg.Oracle.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}

	provider, err := oracle.NewProvider(oracle.ConfigFromModel(cfg.Oracle))
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("no inference provider configured (use --provider openai|ollama)")
	}

	if cfg.Cache.Enabled {
		provider = oracle.NewCachedProvider(provider,
			cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL))
	}
	return provider, nil
}

// collectFiles lists the supported documents under path, sorted. A
// plain file is returned as-is so unsupported extensions fail loudly.
func collectFiles(path string, registry *extract.Registry) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !registry.Supported(p) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	cfg := loadConfig()
	applyExtractFlags(cmd, cfg)
	outDir := cfg.Output.Dir

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	controller := pipeline.NewController(cfg, provider)
	files, err := collectFiles(path, extract.NewRegistry())
	if err != nil {
		return fmt.Errorf("collect files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported documents under %s", path)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Documents: %d\n", len(files))
		fmt.Fprintf(os.Stderr, "Provider:  %s\n", cfg.Oracle.Provider)
		fmt.Fprintf(os.Stderr, "Cache:     %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	processor := worker.NewBatchProcessor(controller, concurrency)
	results := processor.ProcessFiles(ctx, files)

	// Open the graph store once for the whole run
	var store graphstore.Store
	if cfg.Graph.Enabled && !noGraph {
		store, err = graphstore.NewNeo4jStore(ctx, cfg.Graph)
		if err != nil {
			return fmt.Errorf("connect to graph store: %w", err)
		}
		defer func() { _ = store.Close(ctx) }()
	}

	renderer := pipeline.NewRenderer(verbose)
	segmenter := segment.New(cfg.Segment)
	successCount := 0
	failureCount := 0
	totalEntities := 0
	totalRelations := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}
		successCount++

		name := strings.TrimSuffix(filepath.Base(result.Path), filepath.Ext(result.Path))
		jsonPath := filepath.Join(outDir, name+".json")
		if err := renderer.RenderJSON(result.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}

		if store != nil {
			entities, relations, err := graphstore.SaveResult(ctx, store, result.Result)
			if err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: failed to store graph: %v\n", result.Path, err)
				continue
			}
			totalEntities += entities
			totalRelations += relations
		}

		quality := 0.0
		if result.Result.Quality != nil {
			quality = result.Result.Quality.QualityScore
		}
		fmt.Fprintf(os.Stderr, "✓ %s (%d entities, %d relations, quality %.2f)\n",
			result.Path, len(result.Result.Entities), len(result.Result.Relations), quality)

		if verbose {
			renderer.RenderSummary(result.Result)
			st := segmenter.Statistics(result.Result.Blocks)
			if st.ShortBlocks > 0 {
				fmt.Fprintf(os.Stderr, "Warning: %d of %d blocks shorter than %d runes\n",
					st.ShortBlocks, st.Total, cfg.Segment.MinBlockLength)
			}
		}
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Documents: %d (%d succeeded, %d failed)\n", len(results), successCount, failureCount)
	if store != nil {
		fmt.Fprintf(os.Stderr, "Graph:     %d entities, %d relations stored\n", totalEntities, totalRelations)
	}
	fmt.Fprintf(os.Stderr, "Output:    %s\n", outDir)

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d documents failed", failureCount)
	}
	return nil
}
