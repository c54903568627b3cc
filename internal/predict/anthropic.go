package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/soltixdb/trendlens/internal/config"
)

// Anthropic calls the Messages API
type Anthropic struct {
	apiKey   string
	endpoint string
	version  string
	model    string
	settings Settings
	http     httpClient
}

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// NewAnthropic returns ErrMissingCredential without an API key
func NewAnthropic(cfg config.AnthropicConfig, settings Settings) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set providers.anthropic.api_key or ANTHROPIC_API_KEY", ErrMissingCredential)
	}
	version := cfg.Version
	if version == "" {
		version = "2023-06-01"
	}
	return &Anthropic{
		apiKey:   cfg.APIKey,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		version:  version,
		model:    cfg.Model,
		settings: settings,
		http:     newHTTPClient(cfg.Timeout, cfg.RateLimit, cfg.Burst),
	}, nil
}

func (a *Anthropic) Provider() string { return ProviderAnthropic }

func (a *Anthropic) Model() string { return a.model }

// Predict posts one user message to /v1/messages and returns the text blocks
func (a *Anthropic) Predict(ctx context.Context, prompt string, opts ...CallOption) (string, error) {
	temp, tokens := a.settings.resolve(opts)
	payload := anthropicRequest{
		Model:       a.model,
		MaxTokens:   tokens,
		Temperature: temp,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	}

	status, body, err := a.http.post(ctx, a.endpoint+"/v1/messages", map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": a.version,
	}, payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("Anthropic API error (%d): %s", status, apiErrorMessage(body))
	}

	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response content")
	}
	return sb.String(), nil
}
