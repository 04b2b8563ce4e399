package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/nguyentantai21042004/tube2book/internal/cache"
	"github.com/nguyentantai21042004/tube2book/internal/chunker"
	"github.com/nguyentantai21042004/tube2book/internal/llm"
	"github.com/nguyentantai21042004/tube2book/internal/pipeline"
	"github.com/nguyentantai21042004/tube2book/internal/storage"
	"github.com/nguyentantai21042004/tube2book/internal/transcript"
	"gopkg.in/yaml.v3"
)

// envPrefix namespaces environment overrides, e.g. TUBE2BOOK_LLM_MODEL
const envPrefix = "tube2book"

type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Transcript  TranscriptConfig  `yaml:"transcript"`
	Output      OutputConfig      `yaml:"output"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Cache       CacheConfig       `yaml:"cache"`
	Storage     StorageConfig     `yaml:"storage"`
	Server      ServerConfig      `yaml:"server"`
}

// LLMConfig selects the backend. API keys come from the environment only.
type LLMConfig struct {
	Provider          string        `yaml:"provider" validate:"oneof=groq gemini"`
	Model             string        `yaml:"model" validate:"required"`
	BaseURL           string        `yaml:"base_url" split_words:"true" validate:"omitempty,url"`
	MaxTokens         int           `yaml:"max_tokens" split_words:"true" validate:"gt=0"`
	Temperature       float64       `yaml:"temperature" validate:"gte=0,lte=2"`
	RequestsPerMinute int           `yaml:"requests_per_minute" split_words:"true" validate:"gte=0"`
	RequestTimeout    time.Duration `yaml:"request_timeout" split_words:"true" validate:"gte=0"`
	GroqAPIKey        string        `yaml:"-" envconfig:"GROQ_API_KEY"`
	GeminiAPIKeys     []string      `yaml:"-" envconfig:"GEMINI_API_KEYS"`
}

type PipelineConfig struct {
	ChunkThreshold   int           `yaml:"chunk_threshold" split_words:"true" validate:"gt=0,gtfield=ChunkOverlap"`
	ChunkOverlap     int           `yaml:"chunk_overlap" split_words:"true" validate:"gte=0"`
	LookBack         int           `yaml:"look_back" split_words:"true" validate:"gte=0"`
	MaxRetryAttempts int           `yaml:"max_retry_attempts" split_words:"true" validate:"gte=1,lte=10"`
	BackoffBase      time.Duration `yaml:"backoff_base" split_words:"true" validate:"gt=0"`
	BackoffMax       time.Duration `yaml:"backoff_max" split_words:"true" validate:"gtefield=BackoffBase"`
	PromptFile       string        `yaml:"prompt_file" split_words:"true"`
}

type TranscriptConfig struct {
	Language      string        `yaml:"language" validate:"required"`
	YtDlpBinary   string        `yaml:"ytdlp_binary" split_words:"true"`
	YtDlpFallback bool          `yaml:"ytdlp_fallback" split_words:"true"`
	HTTPTimeout   time.Duration `yaml:"http_timeout" split_words:"true" validate:"gte=0"`
	BaseURL       string        `yaml:"base_url" split_words:"true" validate:"omitempty,url"`
}

type OutputConfig struct {
	Dir            string   `yaml:"dir" validate:"required"`
	Formats        []string `yaml:"formats" validate:"min=1,dive,oneof=docx pdf markdown"`
	TranscriptDocx bool     `yaml:"transcript_docx" split_words:"true"`
}

type PathsConfig struct {
	Input    string `yaml:"input" validate:"required"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" split_words:"true" validate:"gte=1"`
}

type CacheConfig struct {
	Backend       string        `yaml:"backend" validate:"oneof=none memory redis"`
	RedisAddr     string        `yaml:"redis_addr" split_words:"true" validate:"required_if=Backend redis"`
	RedisPassword string        `yaml:"-" envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db" split_words:"true" validate:"gte=0"`
	TTL           time.Duration `yaml:"ttl" validate:"gte=0"`
}

type StorageConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint" validate:"required_if=Enabled true"`
	Bucket    string `yaml:"bucket" validate:"required_if=Enabled true"`
	UseSSL    bool   `yaml:"use_ssl" split_words:"true"`
	AccessKey string `yaml:"-" envconfig:"STORAGE_ACCESS_KEY"`
	SecretKey string `yaml:"-" envconfig:"STORAGE_SECRET_KEY"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gte=0"`
}

// Load reads the YAML file at path, overlays environment variables (a .env
// file in the working directory is loaded first when present) and validates
// the result.
func Load(path string) (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate fills defaults for optional fields, then checks the rest
func (c *Config) Validate() error {
	c.setDefaults()

	return validator.New().Struct(c)
}

func (c *Config) setDefaults() {
	def := pipeline.DefaultConfig()

	if c.LLM.Provider == "" {
		c.LLM.Provider = llm.ProviderGroq
	}
	if c.LLM.Model == "" {
		if c.LLM.Provider == llm.ProviderGemini {
			c.LLM.Model = "gemini-2.5-flash"
		} else {
			c.LLM.Model = def.LLM.Model
		}
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = def.LLM.MaxTokens
	}
	if c.LLM.RequestTimeout == 0 {
		c.LLM.RequestTimeout = def.LLM.RequestTimeout
	}

	if c.Pipeline.ChunkThreshold == 0 {
		c.Pipeline.ChunkThreshold = chunker.DefaultMaxChars
	}
	if c.Pipeline.LookBack == 0 {
		c.Pipeline.LookBack = chunker.DefaultLookBack
	}
	if c.Pipeline.MaxRetryAttempts == 0 {
		c.Pipeline.MaxRetryAttempts = def.LLM.MaxAttempts
	}
	if c.Pipeline.BackoffBase == 0 {
		c.Pipeline.BackoffBase = def.LLM.BaseDelay
	}
	if c.Pipeline.BackoffMax == 0 {
		c.Pipeline.BackoffMax = def.LLM.MaxDelay
	}

	if c.Transcript.Language == "" {
		c.Transcript.Language = "en"
	}
	if c.Transcript.YtDlpBinary == "" {
		c.Transcript.YtDlpBinary = "yt-dlp"
	}
	if c.Transcript.HTTPTimeout == 0 {
		c.Transcript.HTTPTimeout = 15 * time.Second
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "summaries"
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"docx", "pdf"}
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 7 * 24 * time.Hour
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
}

// Pipeline builds the value object handed to the pipeline controller
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		Chunking: chunker.Config{
			MaxChars: c.Pipeline.ChunkThreshold,
			Overlap:  c.Pipeline.ChunkOverlap,
			LookBack: c.Pipeline.LookBack,
		},
		LLM: llm.Policy{
			Model:          c.LLM.Model,
			MaxTokens:      c.LLM.MaxTokens,
			Temperature:    c.LLM.Temperature,
			MaxAttempts:    c.Pipeline.MaxRetryAttempts,
			BaseDelay:      c.Pipeline.BackoffBase,
			MaxDelay:       c.Pipeline.BackoffMax,
			RequestTimeout: c.LLM.RequestTimeout,
		},
	}
}

// Backend builds the LLM backend settings
func (c *Config) Backend() llm.BackendConfig {
	return llm.BackendConfig{
		Provider:          c.LLM.Provider,
		GroqAPIKey:        c.LLM.GroqAPIKey,
		GeminiAPIKeys:     c.LLM.GeminiAPIKeys,
		BaseURL:           c.LLM.BaseURL,
		RequestsPerMinute: c.LLM.RequestsPerMinute,
		Timeout:           c.LLM.RequestTimeout,
	}
}

// TranscriptSource builds the transcript fetcher settings
func (c *Config) TranscriptSource() transcript.Config {
	return transcript.Config{
		Language:      c.Transcript.Language,
		BaseURL:       c.Transcript.BaseURL,
		HTTPTimeout:   c.Transcript.HTTPTimeout,
		YtDlpBinary:   c.Transcript.YtDlpBinary,
		YtDlpFallback: c.Transcript.YtDlpFallback,
		TempDir:       c.Paths.Temp,
	}
}

// CacheStore builds the summary cache settings
func (c *Config) CacheStore() cache.Config {
	return cache.Config{
		Backend:       c.Cache.Backend,
		RedisAddr:     c.Cache.RedisAddr,
		RedisPassword: c.Cache.RedisPassword,
		RedisDB:       c.Cache.RedisDB,
		TTL:           c.Cache.TTL,
	}
}

// StorageTarget builds the object storage settings
func (c *Config) StorageTarget() storage.Config {
	return storage.Config{
		Enabled:   c.Storage.Enabled,
		Endpoint:  c.Storage.Endpoint,
		Bucket:    c.Storage.Bucket,
		UseSSL:    c.Storage.UseSSL,
		AccessKey: c.Storage.AccessKey,
		SecretKey: c.Storage.SecretKey,
	}
}
