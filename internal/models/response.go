package models

import "time"

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// AnalyzeFileResponse is returned by the file analysis endpoint
type AnalyzeFileResponse struct {
	Result  *AnalysisResult `json:"result"`
	Outputs []string        `json:"outputs,omitempty"`
	RunID   string          `json:"run_id,omitempty"`
}

// PredictResponse carries a model's answer about a dataset
type PredictResponse struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Source     string `json:"source"`
	Prediction string `json:"prediction"`
	Output     string `json:"output,omitempty"`
}

// AnalysisRun is a stored summary of one completed analysis
type AnalysisRun struct {
	ID             string    `json:"id"`
	Indicator      string    `json:"indicator"`
	Source         string    `json:"source"`
	TotalCountries int       `json:"total_countries"`
	Selected       int       `json:"selected"`
	MaxValue       *float64  `json:"max_value,omitempty"`
	MinValue       *float64  `json:"min_value,omitempty"`
	MeanValue      *float64  `json:"mean_value,omitempty"`
	MedianValue    *float64  `json:"median_value,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// HistoryListResponse lists recent analysis runs
type HistoryListResponse struct {
	Runs  []AnalysisRun `json:"runs"`
	Count int           `json:"count"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
