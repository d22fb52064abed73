package model

import "time"

// Config is the complete application configuration. It is built once
// from defaults, config file, environment and flags, then passed into
// every component constructor; there is no ambient global state.
type Config struct {
	Oracle      OracleConfig      `yaml:"oracle" mapstructure:"oracle"`
	Graph       GraphConfig       `yaml:"graph" mapstructure:"graph"`
	Segment     SegmentConfig     `yaml:"segment" mapstructure:"segment"`
	Canon       CanonConfig       `yaml:"canon" mapstructure:"canon"`
	Coref       CorefConfig       `yaml:"coref" mapstructure:"coref"`
	Pipeline    PipelineConfig    `yaml:"pipeline" mapstructure:"pipeline"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// OracleConfig configures the inference provider.
type OracleConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"` // "openai", "ollama", ""
	Model       string        `yaml:"model" mapstructure:"model"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
}

// GraphConfig configures the Neo4j graph store.
type GraphConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	URI      string `yaml:"uri" mapstructure:"uri"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Database string `yaml:"database" mapstructure:"database"`
}

// SegmentConfig configures block segmentation.
type SegmentConfig struct {
	// MinBlockLength is advisory: blocks shorter than this are
	// reported in stats but never merged, so the position partition
	// invariant holds.
	MinBlockLength int `yaml:"min_block_length" mapstructure:"min_block_length"`
}

// CanonConfig configures entity canonicalization.
type CanonConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// CorefConfig configures graph-guided coreference resolution.
type CorefConfig struct {
	MaxHops             int     `yaml:"max_hops" mapstructure:"max_hops"`
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
}

// PipelineConfig configures the controller's quality loop.
type PipelineConfig struct {
	QualityThreshold     float64 `yaml:"quality_threshold" mapstructure:"quality_threshold"`
	MaxBacktrackAttempts int     `yaml:"max_backtrack_attempts" mapstructure:"max_backtrack_attempts"`
}

// CacheConfig configures the oracle response cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig bounds block-level inference fan-out.
type ConcurrencyConfig struct {
	NERWorkers        int     `yaml:"ner_workers" mapstructure:"ner_workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
}

// DefaultConfig returns sensible defaults for all components.
func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleConfig{
			Provider:    "",
			Model:       "",
			Timeout:     120 * time.Second,
			MaxTokens:   4000,
			Temperature: 0.3,
		},
		Graph: GraphConfig{
			Enabled:  true,
			URI:      "bolt://localhost:7687",
			User:     "neo4j",
			Password: "password",
		},
		Segment: SegmentConfig{
			MinBlockLength: 50,
		},
		Canon: CanonConfig{
			SimilarityThreshold: 0.6,
		},
		Coref: CorefConfig{
			MaxHops:             3,
			SimilarityThreshold: 0.5,
		},
		Pipeline: PipelineConfig{
			QualityThreshold:     0.8,
			MaxBacktrackAttempts: 1,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".lexgraph-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			NERWorkers:        4,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Output: OutputConfig{
			Dir: "output",
		},
	}
}
