package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Analysis  AnalysisConfig  `mapstructure:"analysis" yaml:"analysis"`
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	Fetch     FetchConfig     `mapstructure:"fetch" yaml:"fetch"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Queue     QueueConfig     `mapstructure:"queue" yaml:"queue"`
	History   HistoryConfig   `mapstructure:"history" yaml:"history"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled" yaml:"enabled"`   // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys" yaml:"api_keys"` // List of valid API keys
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"` // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort        int           `mapstructure:"http_port" yaml:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	BodyLimit       int           `mapstructure:"body_limit" yaml:"body_limit"` // Max request body in bytes
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// AnalysisConfig holds defaults for dataset analysis
type AnalysisConfig struct {
	DataDir    string   `mapstructure:"data_dir" yaml:"data_dir"`       // Root for file based requests
	TopN       int      `mapstructure:"top_n" yaml:"top_n"`             // Entities kept when no filter is given
	Horizon    int      `mapstructure:"horizon" yaml:"horizon"`         // Periods for stand-alone forecasts
	Algorithm  string   `mapstructure:"algorithm" yaml:"algorithm"`     // Forecaster name
	Workers    int      `mapstructure:"workers" yaml:"workers"`         // Parallel files in batch mode
	Pattern    string   `mapstructure:"pattern" yaml:"pattern"`         // Glob for batch mode
	Formats    []string `mapstructure:"formats" yaml:"formats"`         // json, text, xlsx
	MaxRecords int      `mapstructure:"max_records" yaml:"max_records"` // Records summarized in prompts
}

// ProvidersConfig holds language model credentials and defaults
type ProvidersConfig struct {
	Default     string          `mapstructure:"default" yaml:"default"` // github, anthropic
	Temperature float64         `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int             `mapstructure:"max_tokens" yaml:"max_tokens"`
	GitHub      GitHubConfig    `mapstructure:"github" yaml:"github"`
	Anthropic   AnthropicConfig `mapstructure:"anthropic" yaml:"anthropic"`
}

// GitHubConfig configures the GitHub Models client
type GitHubConfig struct {
	Token     string        `mapstructure:"token" yaml:"token"`
	Endpoint  string        `mapstructure:"endpoint" yaml:"endpoint"`
	Model     string        `mapstructure:"model" yaml:"model"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per second, 0 disables
	Burst     int           `mapstructure:"burst" yaml:"burst"`
}

// AnthropicConfig configures the Anthropic Messages client
type AnthropicConfig struct {
	APIKey    string        `mapstructure:"api_key" yaml:"api_key"`
	Endpoint  string        `mapstructure:"endpoint" yaml:"endpoint"`
	Model     string        `mapstructure:"model" yaml:"model"`
	Version   string        `mapstructure:"version" yaml:"version"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	Burst     int           `mapstructure:"burst" yaml:"burst"`
}

// FetchConfig configures the upstream data APIs
type FetchConfig struct {
	WorldBankURL  string        `mapstructure:"worldbank_url" yaml:"worldbank_url"`
	WeatherURL    string        `mapstructure:"weather_url" yaml:"weather_url"`
	WeatherAPIKey string        `mapstructure:"weather_api_key" yaml:"weather_api_key"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	PerPage       int           `mapstructure:"per_page" yaml:"per_page"`
	DateRange     string        `mapstructure:"date_range" yaml:"date_range"`
}

// OutputConfig selects where analysis artifacts are written
type OutputConfig struct {
	Sink        string   `mapstructure:"sink" yaml:"sink"` // file, s3, none
	Dir         string   `mapstructure:"dir" yaml:"dir"`
	Compression string   `mapstructure:"compression" yaml:"compression"` // none, snappy
	S3          S3Config `mapstructure:"s3" yaml:"s3"`
}

// S3Config configures the S3 sink. Endpoint and path style support MinIO.
type S3Config struct {
	Bucket          string `mapstructure:"bucket" yaml:"bucket"`
	Region          string `mapstructure:"region" yaml:"region"`
	Prefix          string `mapstructure:"prefix" yaml:"prefix"`
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style" yaml:"use_path_style"`
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
	Type          string `mapstructure:"type" yaml:"type"`                     // nats (default), redis, kafka, memory
	URL           string `mapstructure:"url" yaml:"url"`                       // e.g. nats://localhost:4222, redis://localhost:6379
	Username      string `mapstructure:"username" yaml:"username"`             // Optional authentication
	Password      string `mapstructure:"password" yaml:"password"`             // Optional authentication
	SubjectPrefix string `mapstructure:"subject_prefix" yaml:"subject_prefix"` // Subject / topic prefix (default: "trendlens")

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db" yaml:"redis_db"`
	RedisStream string `mapstructure:"redis_stream" yaml:"redis_stream"` // Stream key prefix

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers" yaml:"kafka_brokers"`
}

// HistoryConfig configures the SQLite run history
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"` // Database file, ":memory:" for tests
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`             // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format"`           // json, console
	OutputPath string `mapstructure:"output_path" yaml:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format" yaml:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.Providers.Validate(); err != nil {
		return fmt.Errorf("providers config: %w", err)
	}

	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}

	if err := c.Queue.Validate(); err != nil {
		return fmt.Errorf("queue config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}
	if c.BodyLimit < 0 {
		return fmt.Errorf("body_limit cannot be negative")
	}
	return nil
}

// Validate validates analysis configuration
func (c *AnalysisConfig) Validate() error {
	if c.TopN < 1 {
		return fmt.Errorf("analysis.top_n must be at least 1")
	}
	if c.Horizon < 1 || c.Horizon > 100 {
		return fmt.Errorf("analysis.horizon must be between 1 and 100")
	}
	if c.Workers < 1 {
		return fmt.Errorf("analysis.workers must be at least 1")
	}
	for _, f := range c.Formats {
		switch f {
		case "json", "text", "xlsx":
		default:
			return fmt.Errorf("analysis.formats: unknown format %q", f)
		}
	}
	return nil
}

// Validate validates provider configuration. Credentials are not required
// here; clients report a missing credential when they are used.
func (c *ProvidersConfig) Validate() error {
	if c.Default != "github" && c.Default != "anthropic" {
		return fmt.Errorf("providers.default must be 'github' or 'anthropic'")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("providers.temperature must be between 0 and 2")
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("providers.max_tokens must be positive")
	}
	return nil
}

// Validate validates output configuration
func (c *OutputConfig) Validate() error {
	switch c.Sink {
	case "file":
		if c.Dir == "" {
			return fmt.Errorf("output.dir is required for the file sink")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("output.s3.bucket is required for the s3 sink")
		}
	case "none":
	default:
		return fmt.Errorf("output.sink must be one of: file, s3, none")
	}

	if c.Compression != "none" && c.Compression != "snappy" {
		return fmt.Errorf("output.compression must be 'none' or 'snappy'")
	}
	return nil
}

// Validate validates queue configuration
func (c *QueueConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Type {
	case "nats", "redis", "memory":
	case "kafka":
		if len(c.KafkaBrokers) == 0 && c.URL == "" {
			return fmt.Errorf("queue.kafka_brokers or queue.url is required for kafka")
		}
	default:
		return fmt.Errorf("queue.type must be one of: nats, redis, kafka, memory")
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
