package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/soltixdb/trendlens/internal/config"
	"github.com/soltixdb/trendlens/internal/models"
)

// StatusSuccess marks a dataset built from a successful download
const StatusSuccess = "success"

// WorldBankClient reads indicator series from the World Bank v2 API
type WorldBankClient struct {
	baseURL   string
	perPage   int
	dateRange string
	client    *http.Client
	now       func() time.Time
}

// NewWorldBankClient builds a client from the fetch configuration
func NewWorldBankClient(cfg config.FetchConfig) *WorldBankClient {
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	return &WorldBankClient{
		baseURL:   strings.TrimRight(cfg.WorldBankURL, "/"),
		perPage:   perPage,
		dateRange: cfg.DateRange,
		client:    newHTTPClient(cfg.Timeout),
		now:       time.Now,
	}
}

type worldBankMessage struct {
	Message []struct {
		ID    string `json:"id"`
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"message"`
}

// FetchIndicator downloads one indicator for a country code. Empty dateRange
// and perPage <= 0 fall back to the client defaults. The result uses the same
// layout the analysis reads from disk.
func (c *WorldBankClient) FetchIndicator(ctx context.Context, country, indicator, dateRange string, perPage int) (*models.IndicatorDataset, error) {
	if country == "" || indicator == "" {
		return nil, errors.New("country and indicator are required")
	}
	if dateRange == "" {
		dateRange = c.dateRange
	}
	if perPage <= 0 {
		perPage = c.perPage
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("per_page", strconv.Itoa(perPage))
	if dateRange != "" {
		q.Set("date", dateRange)
	}
	endpoint := fmt.Sprintf("%s/country/%s/indicator/%s?%s",
		c.baseURL, url.PathEscape(country), url.PathEscape(indicator), q.Encode())

	body, err := get(ctx, c.client, endpoint)
	if err != nil {
		return nil, err
	}

	// the API answers [meta, records] or [{"message": [...]}] on errors
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, fmt.Errorf("decode World Bank response: %w", err)
	}
	if len(parts) < 2 {
		if len(parts) == 1 {
			var msg worldBankMessage
			if json.Unmarshal(parts[0], &msg) == nil && len(msg.Message) > 0 {
				return nil, fmt.Errorf("World Bank API error %s: %s", msg.Message[0].ID, msg.Message[0].Value)
			}
		}
		return nil, errors.New("unexpected World Bank response shape")
	}

	var records []models.Record
	if string(parts[1]) != "null" {
		if err := json.Unmarshal(parts[1], &records); err != nil {
			return nil, fmt.Errorf("decode World Bank records: %w", err)
		}
	}
	if records == nil {
		records = []models.Record{}
	}

	name := indicator
	for _, r := range records {
		if r.Indicator != nil && r.Indicator.Value != "" {
			name = r.Indicator.Value
			break
		}
	}

	return &models.IndicatorDataset{
		Indicator: name,
		Timestamp: c.now().Format(time.RFC3339),
		Data: models.DataPayload{
			Data:   records,
			Status: StatusSuccess,
		},
	}, nil
}

// FetchIndicators downloads several indicators concurrently. Results keep the
// order of indicators; the first failure cancels the rest.
func (c *WorldBankClient) FetchIndicators(ctx context.Context, country string, indicators []string) ([]*models.IndicatorDataset, error) {
	out := make([]*models.IndicatorDataset, len(indicators))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, ind := range indicators {
		g.Go(func() error {
			ds, err := c.FetchIndicator(ctx, country, ind, "", 0)
			if err != nil {
				return fmt.Errorf("%s: %w", ind, err)
			}
			out[i] = ds
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
