package models

// AnalyzeFileRequest analyzes a dataset file below the configured data directory
type AnalyzeFileRequest struct {
	Path    string   `json:"path" validate:"required"`
	Country string   `json:"country,omitempty"`
	TopN    int      `json:"top_n,omitempty" validate:"omitempty,min=1,max=1000"`
	Formats []string `json:"formats,omitempty" validate:"omitempty,dive,oneof=json text xlsx"`
}

// ForecastRequest projects one entity of an inline dataset
type ForecastRequest struct {
	Dataset *IndicatorDataset `json:"dataset" validate:"required"`
	Country string            `json:"country" validate:"required"`
	Horizon int               `json:"horizon,omitempty" validate:"omitempty,min=1,max=100"`
}

// InsightsRequest runs text analysis over a model response
type InsightsRequest struct {
	Name string `json:"name,omitempty"`
	Text string `json:"text" validate:"required"`
}

// PredictRequest asks a language model to comment on a dataset file
type PredictRequest struct {
	Path       string `json:"path" validate:"required"`
	Provider   string `json:"provider,omitempty" validate:"omitempty,oneof=github anthropic"`
	Model      string `json:"model,omitempty"`
	Question   string `json:"question,omitempty" validate:"omitempty,max=2000"`
	MaxRecords int    `json:"max_records,omitempty" validate:"omitempty,min=1,max=100"`
}
