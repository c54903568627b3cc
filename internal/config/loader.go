package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (TRENDLENS_SERVER_HTTP_PORT)
const EnvPrefix = "TRENDLENS"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")              // Current directory
		v.AddConfigPath("./configs")      // Project configs directory
		v.AddConfigPath("./config")       // Alternative config directory
		v.AddConfigPath("/etc/trendlens") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	// Auth defaults
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.api_keys", []string{})

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)

	// Analysis defaults
	v.SetDefault("analysis.data_dir", d.Analysis.DataDir)
	v.SetDefault("analysis.top_n", d.Analysis.TopN)
	v.SetDefault("analysis.horizon", d.Analysis.Horizon)
	v.SetDefault("analysis.algorithm", d.Analysis.Algorithm)
	v.SetDefault("analysis.workers", d.Analysis.Workers)
	v.SetDefault("analysis.pattern", d.Analysis.Pattern)
	v.SetDefault("analysis.formats", d.Analysis.Formats)
	v.SetDefault("analysis.max_records", d.Analysis.MaxRecords)

	// Provider defaults
	v.SetDefault("providers.default", d.Providers.Default)
	v.SetDefault("providers.temperature", d.Providers.Temperature)
	v.SetDefault("providers.max_tokens", d.Providers.MaxTokens)
	v.SetDefault("providers.github.token", "")
	v.SetDefault("providers.github.endpoint", d.Providers.GitHub.Endpoint)
	v.SetDefault("providers.github.model", d.Providers.GitHub.Model)
	v.SetDefault("providers.github.timeout", d.Providers.GitHub.Timeout)
	v.SetDefault("providers.github.rate_limit", d.Providers.GitHub.RateLimit)
	v.SetDefault("providers.github.burst", d.Providers.GitHub.Burst)
	v.SetDefault("providers.anthropic.api_key", "")
	v.SetDefault("providers.anthropic.endpoint", d.Providers.Anthropic.Endpoint)
	v.SetDefault("providers.anthropic.model", d.Providers.Anthropic.Model)
	v.SetDefault("providers.anthropic.version", d.Providers.Anthropic.Version)
	v.SetDefault("providers.anthropic.timeout", d.Providers.Anthropic.Timeout)
	v.SetDefault("providers.anthropic.rate_limit", d.Providers.Anthropic.RateLimit)
	v.SetDefault("providers.anthropic.burst", d.Providers.Anthropic.Burst)

	// Fetch defaults
	v.SetDefault("fetch.worldbank_url", d.Fetch.WorldBankURL)
	v.SetDefault("fetch.weather_url", d.Fetch.WeatherURL)
	v.SetDefault("fetch.weather_api_key", "")
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.per_page", d.Fetch.PerPage)
	v.SetDefault("fetch.date_range", d.Fetch.DateRange)

	// Output defaults
	v.SetDefault("output.sink", d.Output.Sink)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.compression", d.Output.Compression)
	v.SetDefault("output.s3.bucket", "")
	v.SetDefault("output.s3.region", d.Output.S3.Region)
	v.SetDefault("output.s3.prefix", "")
	v.SetDefault("output.s3.endpoint", "")
	v.SetDefault("output.s3.access_key_id", "")
	v.SetDefault("output.s3.secret_access_key", "")
	v.SetDefault("output.s3.use_path_style", false)

	// Queue defaults
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.type", d.Queue.Type)
	v.SetDefault("queue.url", d.Queue.URL)
	v.SetDefault("queue.subject_prefix", d.Queue.SubjectPrefix)
	v.SetDefault("queue.redis_stream", d.Queue.RedisStream)

	// History defaults
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyCredentialFallbacks(&cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyCredentialFallbacks fills empty credentials from the conventional
// environment variables. Values from the config file win.
func applyCredentialFallbacks(cfg *Config) {
	if cfg.Providers.GitHub.Token == "" {
		cfg.Providers.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.Providers.Anthropic.APIKey == "" {
		cfg.Providers.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Fetch.WeatherAPIKey == "" {
		cfg.Fetch.WeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	}
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		cfg = DefaultConfig()
		applyCredentialFallbacks(cfg)
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			HTTPPort:        5580,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    2 * time.Minute,
			BodyLimit:       32 * 1024 * 1024,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
		Analysis: AnalysisConfig{
			DataDir:    "./data",
			TopN:       10,
			Horizon:    5,
			Algorithm:  "linear",
			Workers:    4,
			Pattern:    "*.json",
			Formats:    []string{"json"},
			MaxRecords: 10,
		},
		Providers: ProvidersConfig{
			Default:     "github",
			Temperature: 0.7,
			MaxTokens:   1024,
			GitHub: GitHubConfig{
				Endpoint: "https://models.inference.ai.azure.com",
				Model:    "gpt-4o-mini",
				Timeout:  60 * time.Second,
				Burst:    1,
			},
			Anthropic: AnthropicConfig{
				Endpoint: "https://api.anthropic.com",
				Model:    "claude-3-haiku-20240307",
				Version:  "2023-06-01",
				Timeout:  60 * time.Second,
				Burst:    1,
			},
		},
		Fetch: FetchConfig{
			WorldBankURL: "https://api.worldbank.org/v2",
			WeatherURL:   "https://api.openweathermap.org/data/2.5/weather",
			Timeout:      10 * time.Second,
			PerPage:      100,
			DateRange:    "2000:2023",
		},
		Output: OutputConfig{
			Sink:        "file",
			Dir:         "./output",
			Compression: "none",
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Queue: QueueConfig{
			Type:          "nats",
			URL:           "nats://localhost:4222",
			SubjectPrefix: "trendlens",
			RedisStream:   "trendlens",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "./data/history.db",
		},
	}
}
