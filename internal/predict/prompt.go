package predict

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soltixdb/trendlens/internal/models"
	"github.com/soltixdb/trendlens/internal/utils"
)

// BuildDataSummary lists the indicator header and the first maxRecords raw
// records. maxRecords <= 0 uses the default of 10.
func BuildDataSummary(ds *models.IndicatorDataset, maxRecords int) string {
	if maxRecords <= 0 {
		maxRecords = utils.DefaultMaxRecords
	}
	records := ds.Records()
	timestamp := "Unknown"
	if ds != nil && ds.Timestamp != "" {
		timestamp = ds.Timestamp
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Indicator: %s\n", ds.IndicatorName())
	fmt.Fprintf(&sb, "Timestamp: %s\n", timestamp)
	fmt.Fprintf(&sb, "Total records: %d\n\n", len(records))
	sb.WriteString("Sample data:\n")

	n := len(records)
	if n > maxRecords {
		n = maxRecords
	}
	for _, r := range records[:n] {
		country := r.EntityName()
		if country == "" {
			country = "Unknown"
		}
		fmt.Fprintf(&sb, "- %s (%s): %s\n", country, formatScalar(r.Date, "Unknown"), formatScalar(r.Value, "N/A"))
	}
	return sb.String()
}

func formatScalar(v interface{}, missing string) string {
	switch x := v.(type) {
	case nil:
		return missing
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// BuildPredictionPrompt wraps a data summary in the analyst instructions. An
// empty question asks for a general trend analysis.
func BuildPredictionPrompt(summary, question string) string {
	if question == "" {
		question = utils.DefaultQuestion
	}
	return fmt.Sprintf(`You are a data analyst specializing in climate and economic trends.

Here is the data summary:

%s

Question: %s

Please provide:
1. Key trends observed in the data
2. Potential predictions for the next 5-10 years
3. Factors that might influence these predictions
4. Any notable patterns or anomalies

Keep your response concise and data-driven.`, summary, question)
}

// NamedSummary is one dataset summary in a comparison
type NamedSummary struct {
	Name    string
	Summary string
}

// BuildComparisonPrompt joins several summaries for a cross-indicator question
func BuildComparisonPrompt(summaries []NamedSummary, question string) string {
	parts := make([]string, 0, len(summaries))
	for _, s := range summaries {
		parts = append(parts, fmt.Sprintf("File: %s\n%s\n", s.Name, s.Summary))
	}

	return fmt.Sprintf(`You are analyzing multiple related datasets. Here are the summaries:

%s

Question: %s

Please provide a comparative analysis focusing on:
1. Relationships between the indicators
2. Correlations or patterns across datasets
3. Insights for policy or decision-making
4. Future outlook considering all indicators together`, strings.Join(parts, "\n---\n"), question)
}
