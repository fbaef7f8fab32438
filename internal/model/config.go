package model

import "time"

// Config holds every tunable the system recognizes. All values are supplied
// at construction; DefaultConfig carries the documented fallbacks.
type Config struct {
	Engine    EngineConfig    `yaml:"engine" mapstructure:"engine"`
	Topics    TopicsConfig    `yaml:"topics" mapstructure:"topics"`
	Trends    TrendsConfig    `yaml:"trends" mapstructure:"trends"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Storage   StorageConfig   `yaml:"storage" mapstructure:"storage"`
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// EngineConfig tunes cluster assignment.
type EngineConfig struct {
	// AssignmentThreshold is the minimum cosine similarity required to join
	// an existing cluster instead of creating a new one.
	AssignmentThreshold float64 `yaml:"assignment_threshold" mapstructure:"assignment_threshold"`
}

// TopicsConfig tunes the decayed keyword statistics.
type TopicsConfig struct {
	// DecayFactor is applied once per elapsed DecayPeriod:
	// freq *= DecayFactor^periods.
	DecayFactor      float64       `yaml:"decay_factor" mapstructure:"decay_factor"`
	DecayPeriod      time.Duration `yaml:"decay_period" mapstructure:"decay_period"`
	KeywordIncrement float64       `yaml:"keyword_increment" mapstructure:"keyword_increment"`
	TopKeywords      int           `yaml:"top_keywords" mapstructure:"top_keywords"`
}

// TrendsConfig tunes snapshot comparison.
type TrendsConfig struct {
	GrowthThreshold  float64 `yaml:"growth_threshold" mapstructure:"growth_threshold"`
	DeclineThreshold float64 `yaml:"decline_threshold" mapstructure:"decline_threshold"`
}

// IngestConfig tunes the Hacker News ingestion client.
type IngestConfig struct {
	MaxStoriesPerList int           `yaml:"max_stories_per_list" mapstructure:"max_stories_per_list"`
	StoryLists        []string      `yaml:"story_lists" mapstructure:"story_lists"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	// Enrich fetches each article page (robots.txt permitting) so keyword
	// extraction can see the full text, not just the headline.
	Enrich      bool   `yaml:"enrich" mapstructure:"enrich"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
	CacheDir    string `yaml:"cache_dir" mapstructure:"cache_dir"`
}

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "local"
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Dimension int    `yaml:"dimension" mapstructure:"dimension"` // local provider only
	BatchSize int    `yaml:"batch_size" mapstructure:"batch_size"`
}

// LLMConfig tunes the optional cluster summarizer. Summaries never feed
// back into engine state.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "" disables summarization
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
}

// StorageConfig locates the persisted state.
type StorageConfig struct {
	BaseDir string `yaml:"base_dir" mapstructure:"base_dir"`
}

// APIConfig tunes the read-only HTTP API.
type APIConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the documented fallbacks.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			AssignmentThreshold: 0.7,
		},
		Topics: TopicsConfig{
			DecayFactor:      0.95,
			DecayPeriod:      time.Hour,
			KeywordIncrement: 1.0,
			TopKeywords:      10,
		},
		Trends: TrendsConfig{
			GrowthThreshold:  0.5,
			DeclineThreshold: 0.3,
		},
		Ingest: IngestConfig{
			MaxStoriesPerList: 30,
			StoryLists:        []string{"topstories", "newstories", "beststories"},
			RequestsPerSecond: 1.0,
			Timeout:           30 * time.Second,
			UserAgent:         "newsmind/0.1 (+https://github.com/pmarkov/newsmind)",
			MaxBodyBytes:      2_000_000,
			Concurrency:       4,
			CacheDir:          ".newsmind-cache",
		},
		Embedding: EmbeddingConfig{
			Provider:  "local",
			Model:     "text-embedding-3-small",
			Dimension: 64,
			BatchSize: 32,
		},
		LLM: LLMConfig{
			Provider:  "", // disabled by default
			Model:     "gpt-4o-mini",
			MaxTokens: 500,
			Timeout:   30,
		},
		Storage: StorageConfig{
			BaseDir: "./data",
		},
		API: APIConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
