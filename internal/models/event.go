package models

import "time"

// AnalysisEvent is published after an analysis completes
type AnalysisEvent struct {
	ID             string         `json:"id"`
	Indicator      string         `json:"indicator"`
	Source         string         `json:"source"`
	TotalCountries int            `json:"total_countries"`
	Selected       []string       `json:"selected"`
	GlobalSummary  *GlobalSummary `json:"global_summary,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewAnalysisRun summarizes a result for the history store
func NewAnalysisRun(id, source string, r *AnalysisResult, at time.Time) AnalysisRun {
	run := AnalysisRun{
		ID:             id,
		Indicator:      r.Indicator,
		Source:         source,
		TotalCountries: r.TotalEntities,
		Selected:       len(r.EntityAnalyses),
		CreatedAt:      at,
	}
	if r.GlobalSummary != nil {
		s := *r.GlobalSummary
		run.MaxValue = &s.MaxValue
		run.MinValue = &s.MinValue
		run.MeanValue = &s.MeanValue
		run.MedianValue = &s.MedianValue
	}
	return run
}
