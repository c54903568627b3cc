package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Trend labels
const (
	TrendInsufficient = "insufficient data"
	TrendIncreasing   = "increasing"
	TrendDecreasing   = "decreasing"
	TrendStable       = "stable"
)

// AnalysisResult is the outcome of analyzing one indicator dataset
type AnalysisResult struct {
	Indicator      string         `json:"indicator"`
	Filepath       string         `json:"filepath,omitempty"`
	TotalEntities  int            `json:"total_countries"`
	EntityAnalyses EntityAnalyses `json:"country_analyses"`
	GlobalSummary  *GlobalSummary `json:"global_summary,omitempty"`
}

// EntityAnalysis holds the statistics computed for one entity
type EntityAnalysis struct {
	Entity        string          `json:"country"`
	DataPoints    int             `json:"data_points"`
	FirstPeriod   int             `json:"-"`
	LastPeriod    int             `json:"-"`
	TimeRange     string          `json:"time_range"`
	LatestValue   float64         `json:"latest_value"`
	EarliestValue float64         `json:"earliest_value"`
	Trend         string          `json:"trend"`
	GrowthRate    float64         `json:"avg_growth_rate"`
	Volatility    float64         `json:"volatility"`
	Forecast      []ForecastPoint `json:"forecast_5yr"`
}

// GlobalSummary aggregates the latest values of every analyzed entity
type GlobalSummary struct {
	MaxValue    float64 `json:"max_value"`
	MinValue    float64 `json:"min_value"`
	MeanValue   float64 `json:"mean_value"`
	MedianValue float64 `json:"median_value"`
}

// ForecastPoint is a projected (period, value) pair, encoded as a two element array
type ForecastPoint struct {
	Period int
	Value  float64
}

// MarshalJSON encodes the point as [period, value]
func (p ForecastPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{p.Period, p.Value})
}

// UnmarshalJSON decodes a [period, value] pair
func (p *ForecastPoint) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("forecast point must have 2 elements, got %d", len(pair))
	}
	p.Period = int(pair[0])
	p.Value = pair[1]
	return nil
}

// EntityAnalyses is the ordered selection of entity analyses. It is encoded as
// a JSON object keyed by entity name, keeping rank order.
type EntityAnalyses []EntityAnalysis

// Get returns the analysis for an entity
func (e EntityAnalyses) Get(entity string) (EntityAnalysis, bool) {
	for _, a := range e {
		if a.Entity == entity {
			return a, true
		}
	}
	return EntityAnalysis{}, false
}

// Names returns the entity names in order
func (e EntityAnalyses) Names() []string {
	names := make([]string, len(e))
	for i, a := range e {
		names[i] = a.Entity
	}
	return names
}

// MarshalJSON writes an object whose keys follow slice order
func (e EntityAnalyses) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Entity)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object and keeps its key order
func (e *EntityAnalyses) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*e = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("country_analyses must be an object")
	}

	out := EntityAnalyses{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var a EntityAnalysis
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("country_analyses[%s]: %w", key, err)
		}
		if a.Entity == "" {
			a.Entity = key
		}
		out = append(out, a)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*e = out
	return nil
}
