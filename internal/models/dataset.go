package models

import (
	"encoding/json"
	"os"
)

// IndicatorDataset is one indicator export as written by the fetch layer.
// The record list sits two levels deep, mirroring the World Bank response wrapper.
type IndicatorDataset struct {
	Indicator string      `json:"indicator"`
	Timestamp string      `json:"timestamp"`
	Data      DataPayload `json:"data"`
}

// DataPayload wraps the raw record list
type DataPayload struct {
	Data   []Record `json:"data"`
	Status string   `json:"status,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Record is a single raw observation. Fields are kept loosely typed; the
// extractor decides which records are usable.
type Record struct {
	Indicator       *EntityRef  `json:"indicator,omitempty"`
	Country         *EntityRef  `json:"country,omitempty"`
	CountryISO3Code string      `json:"countryiso3code,omitempty"`
	Date            interface{} `json:"date"`
	Value           interface{} `json:"value"`
}

// EntityRef is an {id, value} pair as used by the World Bank API
type EntityRef struct {
	ID    string `json:"id,omitempty"`
	Value string `json:"value"`
}

// UnmarshalJSON accepts any JSON value. Anything other than an object with
// string fields leaves the reference empty so the record is dropped later
// instead of failing the whole dataset.
func (r *EntityRef) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID    interface{} `json:"id"`
		Value interface{} `json:"value"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		*r = EntityRef{}
		return nil
	}
	r.ID, _ = raw.ID.(string)
	r.Value, _ = raw.Value.(string)
	return nil
}

// EntityName returns the country name or "" when absent
func (r Record) EntityName() string {
	if r.Country == nil {
		return ""
	}
	return r.Country.Value
}

// Records returns the raw records in dataset order
func (d *IndicatorDataset) Records() []Record {
	if d == nil {
		return nil
	}
	return d.Data.Data
}

// IndicatorName returns the indicator or "Unknown" when the field is empty
func (d *IndicatorDataset) IndicatorName() string {
	if d == nil || d.Indicator == "" {
		return "Unknown"
	}
	return d.Indicator
}

// ParseDataset decodes a dataset from JSON
func ParseDataset(data []byte) (*IndicatorDataset, error) {
	var ds IndicatorDataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, &DataAccessError{Op: "decode", Err: err}
	}
	return &ds, nil
}

// LoadDataset reads and decodes a dataset file
func LoadDataset(path string) (*IndicatorDataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataAccessError{Op: "read", Path: path, Err: err}
	}

	ds, err := ParseDataset(data)
	if err != nil {
		if dae, ok := err.(*DataAccessError); ok {
			dae.Path = path
		}
		return nil, err
	}
	return ds, nil
}
