package model

import "time"

// Config is the complete paperforge configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Polish    PolishConfig    `yaml:"polish" mapstructure:"polish"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the polish endpoint
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	Mode string `yaml:"mode" mapstructure:"mode"` // gin mode: debug, release, test
}

// RateLimitConfig configures the per-client limiter of the polish endpoint
type RateLimitConfig struct {
	Backend     string        `yaml:"backend" mapstructure:"backend"` // memory, redis
	MaxRequests int           `yaml:"max_requests" mapstructure:"max_requests"`
	Window      time.Duration `yaml:"window" mapstructure:"window"`
	RedisAddr   string        `yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisPrefix string        `yaml:"redis_prefix,omitempty" mapstructure:"redis_prefix"`
}

// LLMConfig configures the hosted language model used for polishing
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, cloudflare, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	AccountID string `yaml:"account_id,omitempty" mapstructure:"account_id"` // cloudflare only
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"`                 // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PolishConfig configures the caller side of the polish endpoint
type PolishConfig struct {
	EndpointURL       string        `yaml:"endpoint_url" mapstructure:"endpoint_url"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute" mapstructure:"requests_per_minute"` // 0 disables pacing
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// StoreConfig selects the draft persistence backend
type StoreConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // file, memory, sqlite, postgres
	Dir     string `yaml:"dir" mapstructure:"dir"`
	DSN     string `yaml:"dsn,omitempty" mapstructure:"dsn"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Mode string `yaml:"mode" mapstructure:"mode"` // dev, prod
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8788",
			Mode: "release",
		},
		RateLimit: RateLimitConfig{
			Backend:     "memory",
			MaxRequests: 20,
			Window:      60 * time.Second,
			RedisPrefix: "paperforge:ratelimit:",
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 256,
		},
		Polish: PolishConfig{
			EndpointURL:       "http://localhost:8788/api/polish-text",
			Timeout:           30 * time.Second,
			RequestsPerMinute: 18,
		},
		Store: StoreConfig{
			Backend: "file",
			Dir:     "./paperforge-drafts",
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}
