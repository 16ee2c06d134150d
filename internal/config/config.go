package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// FileEnv names the variable holding an optional YAML config path. Values
// from the file are overridden by environment variables.
const FileEnv = "MDWIKI_CONFIG"

type Config struct {
	Port string `yaml:"port"`

	// KV store connection
	StoreURL    string `yaml:"store_url"`
	StoreAPIKey string `yaml:"store_api_key"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Import worker pool
	WorkerCount  int `yaml:"worker_count"`
	MaxQueueSize int `yaml:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Job state
	JobTTL time.Duration `yaml:"job_ttl"`

	// Render cache and latency window
	RenderCacheTTL  time.Duration `yaml:"render_cache_ttl"`
	RenderCacheSize int           `yaml:"render_cache_size"`
	StatsWindow     time.Duration `yaml:"stats_window"`

	Render Render `yaml:"render"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

// Render holds the dialect and output settings.
type Render struct {
	HighlightStyle string `yaml:"highlight_style"`
	EmbedBaseURL   string `yaml:"embed_base_url"`
	CodeTitleSpace string `yaml:"code_title_space"`
	Sanitize       bool   `yaml:"sanitize"`
}

func defaults() Config {
	return Config{
		Port:            "8090",
		StoreURL:        "http://localhost:8080",
		WorkerCount:     4,
		MaxQueueSize:    100,
		MaxUploadBytes:  52428800, // 50MB
		JobTTL:          1 * time.Hour,
		RenderCacheTTL:  10 * time.Minute,
		RenderCacheSize: 512,
		StatsWindow:     1 * time.Hour,
		Render: Render{
			HighlightStyle: "github",
			EmbedBaseURL:   "https://www.youtube-nocookie.com/embed/",
			CodeTitleSpace: "^",
			Sanitize:       true,
		},
		PDFFallbackPdftotext: true,
	}
}

// Load builds the config from defaults, the optional YAML file named by
// MDWIKI_CONFIG, then environment variables.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv(FileEnv); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.StoreURL = envOr("STORE_URL", cfg.StoreURL)
	cfg.StoreAPIKey = envOr("STORE_API_KEY", cfg.StoreAPIKey)
	cfg.APIKey = envOr("MDWIKI_API_KEY", cfg.APIKey)
	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.RenderCacheTTL = envDuration("RENDER_CACHE_TTL", cfg.RenderCacheTTL)
	cfg.RenderCacheSize = envInt("RENDER_CACHE_SIZE", cfg.RenderCacheSize)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)
	cfg.Render.HighlightStyle = envOr("HIGHLIGHT_STYLE", cfg.Render.HighlightStyle)
	cfg.Render.EmbedBaseURL = envOr("EMBED_BASE_URL", cfg.Render.EmbedBaseURL)
	cfg.Render.CodeTitleSpace = envOr("CODE_TITLE_SPACE", cfg.Render.CodeTitleSpace)
	cfg.Render.Sanitize = envBool("SANITIZE", cfg.Render.Sanitize)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)

	cfg.clamp()
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) clamp() {
	d := defaults()
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = d.MaxQueueSize
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.JobTTL <= 0 {
		c.JobTTL = d.JobTTL
	}
	if c.RenderCacheTTL <= 0 {
		c.RenderCacheTTL = d.RenderCacheTTL
	}
	if c.RenderCacheSize <= 0 {
		c.RenderCacheSize = d.RenderCacheSize
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = d.StatsWindow
	}
	if c.Render.CodeTitleSpace == "" {
		c.Render.CodeTitleSpace = d.Render.CodeTitleSpace
	}
}

func (c Config) Validate() error {
	if c.StoreAPIKey == "" {
		return fmt.Errorf("STORE_API_KEY is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("MDWIKI_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
