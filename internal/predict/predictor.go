// Package predict asks hosted language models to comment on indicator datasets.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/soltixdb/trendlens/internal/config"
)

// Provider names
const (
	ProviderGitHub    = "github"
	ProviderAnthropic = "anthropic"
)

const maxErrorBody = 200

// ErrMissingCredential is returned when a provider has no token or API key
var ErrMissingCredential = errors.New("missing provider credential")

// Predictor sends a single prompt to a model and returns its text reply
type Predictor interface {
	Predict(ctx context.Context, prompt string, opts ...CallOption) (string, error)
	Model() string
	Provider() string
}

// Settings are the sampling parameters applied to every call
type Settings struct {
	Temperature float64
	MaxTokens   int
}

type callOptions struct {
	maxTokens   int
	temperature *float64
}

// CallOption overrides a setting for one call
type CallOption func(*callOptions)

// WithMaxTokens caps the reply length for one call
func WithMaxTokens(n int) CallOption {
	return func(o *callOptions) { o.maxTokens = n }
}

// WithTemperature overrides the temperature for one call
func WithTemperature(t float64) CallOption {
	return func(o *callOptions) { o.temperature = &t }
}

func (s Settings) resolve(opts []CallOption) (float64, int) {
	o := callOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	temp, tokens := s.Temperature, s.MaxTokens
	if o.temperature != nil {
		temp = *o.temperature
	}
	if o.maxTokens > 0 {
		tokens = o.maxTokens
	}
	return temp, tokens
}

// New builds the predictor for provider ("" selects cfg.Default). A non-empty
// model overrides the configured one.
func New(provider, model string, cfg config.ProvidersConfig) (Predictor, error) {
	if provider == "" {
		provider = cfg.Default
	}
	settings := Settings{Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens}

	switch provider {
	case ProviderGitHub:
		gh := cfg.GitHub
		if model != "" {
			gh.Model = model
		}
		return NewGitHubModels(gh, settings)
	case ProviderAnthropic:
		an := cfg.Anthropic
		if model != "" {
			an.Model = model
		}
		return NewAnthropic(an, settings)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// newLimiter returns nil when rps is not positive
func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// httpClient holds the transport shared by both providers
type httpClient struct {
	client  *http.Client
	limiter *rate.Limiter
}

func newHTTPClient(timeout time.Duration, rps float64, burst int) httpClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return httpClient{
		client:  &http.Client{Timeout: timeout},
		limiter: newLimiter(rps, burst),
	}
}

// post sends a JSON body and returns the raw response with its status code
func (c httpClient) post(ctx context.Context, url string, headers map[string]string, payload interface{}) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// apiErrorMessage pulls error.message out of a JSON error body, falling back
// to the start of the raw body.
func apiErrorMessage(body []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	s := string(body)
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
