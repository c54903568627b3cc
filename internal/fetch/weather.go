package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/soltixdb/trendlens/internal/config"
)

// ErrMissingAPIKey is returned when no weather API key is configured
var ErrMissingAPIKey = errors.New("weather API key is not configured")

// WeatherClient reads current conditions from OpenWeatherMap
type WeatherClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewWeatherClient builds a client from the fetch configuration
func NewWeatherClient(cfg config.FetchConfig) *WeatherClient {
	return &WeatherClient{
		baseURL: cfg.WeatherURL,
		apiKey:  cfg.WeatherAPIKey,
		client:  newHTTPClient(cfg.Timeout),
	}
}

// Current returns the decoded response for a city, in metric units
func (c *WeatherClient) Current(ctx context.Context, city string) (map[string]interface{}, error) {
	if city == "" {
		return nil, errors.New("city is required")
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	body, err := get(ctx, c.client, c.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var out map[string]interface{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	return out, nil
}
