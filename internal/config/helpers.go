package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const maskedSecret = "****"

// EnsureDirectories ensures all required local directories exist
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Analysis.DataDir,
	}
	if c.Output.Sink == "file" {
		dirs = append(dirs, c.Output.Dir)
	}
	if c.History.Enabled && c.History.Path != ":memory:" {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// ResolveDataPath joins a request path onto the data directory and rejects
// paths that would leave it.
func (c *Config) ResolveDataPath(rel string) (string, error) {
	root, err := filepath.Abs(c.Analysis.DataDir)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("path must be relative to the data directory: %s", rel)
	}

	full := filepath.Join(root, rel)
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes the data directory: %s", rel)
	}
	return full, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// Masked returns a copy with every secret replaced
func (c *Config) Masked() *Config {
	out := *c
	out.Auth.APIKeys = make([]string, len(c.Auth.APIKeys))
	for i := range out.Auth.APIKeys {
		out.Auth.APIKeys[i] = maskedSecret
	}
	out.Analysis.Formats = append([]string(nil), c.Analysis.Formats...)
	out.Queue.KafkaBrokers = append([]string(nil), c.Queue.KafkaBrokers...)

	mask := func(s *string) {
		if *s != "" {
			*s = maskedSecret
		}
	}
	mask(&out.Providers.GitHub.Token)
	mask(&out.Providers.Anthropic.APIKey)
	mask(&out.Fetch.WeatherAPIKey)
	mask(&out.Output.S3.SecretAccessKey)
	mask(&out.Queue.Password)
	return &out
}

// YAML renders the configuration with secrets masked
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.Masked())
}

// CredentialStatus reports which provider credentials are available
func (c *Config) CredentialStatus() map[string]bool {
	return map[string]bool{
		"github_token":    c.Providers.GitHub.Token != "",
		"anthropic_key":   c.Providers.Anthropic.APIKey != "",
		"weather_api_key": c.Fetch.WeatherAPIKey != "",
	}
}
