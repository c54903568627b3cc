// Package report renders analysis results as text, JSON, and XLSX.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/soltixdb/trendlens/internal/models"
)

// Format names accepted by Render
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatXLSX = "xlsx"
)

const ruleWidth = 80

// Number formats a value with thousands separators and two decimals
func Number(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// beyond int64 or not finite
		return sign + s
	}
	return sign + humanize.Comma(n) + "." + frac
}

// WriteText writes the human-readable report
func WriteText(w io.Writer, r *models.AnalysisResult) error {
	bw := bufio.NewWriter(w)
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	fmt.Fprintln(bw, heavy)
	fmt.Fprintf(bw, "ANALYSIS: %s\n", r.Indicator)
	fmt.Fprintln(bw, heavy)
	fmt.Fprintf(bw, "Total countries analyzed: %d\n", r.TotalEntities)

	if s := r.GlobalSummary; s != nil {
		fmt.Fprintln(bw, "\nGlobal Summary:")
		fmt.Fprintf(bw, "  max_value: %s\n", Number(s.MaxValue))
		fmt.Fprintf(bw, "  min_value: %s\n", Number(s.MinValue))
		fmt.Fprintf(bw, "  mean_value: %s\n", Number(s.MeanValue))
		fmt.Fprintf(bw, "  median_value: %s\n", Number(s.MedianValue))
	}

	fmt.Fprintln(bw, "\nTop Countries Analysis:")
	fmt.Fprintln(bw, light)

	for _, a := range r.EntityAnalyses {
		fmt.Fprintf(bw, "\n%s:\n", a.Entity)
		fmt.Fprintf(bw, "  Time range: %s (%d data points)\n", a.TimeRange, a.DataPoints)
		fmt.Fprintf(bw, "  Latest value: %s\n", Number(a.LatestValue))
		fmt.Fprintf(bw, "  Trend: %s\n", a.Trend)
		fmt.Fprintf(bw, "  Avg growth rate: %.2f%% per year\n", a.GrowthRate)
		fmt.Fprintf(bw, "  Volatility: %.2f%%\n", a.Volatility)
		if len(a.Forecast) > 0 {
			fmt.Fprintf(bw, "  %d-year forecast:\n", len(a.Forecast))
			for _, p := range a.Forecast {
				fmt.Fprintf(bw, "    %d: %s\n", p.Period, Number(p.Value))
			}
		}
	}

	return bw.Flush()
}

// MarshalJSON returns the indented JSON document for a result
func MarshalJSON(r *models.AnalysisResult) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	return append(data, '\n'), nil
}

// Render produces the bytes for one output format together with the file
// extension it should be stored under.
func Render(format string, r *models.AnalysisResult) ([]byte, string, error) {
	var sb strings.Builder
	switch format {
	case FormatJSON, "":
		data, err := MarshalJSON(r)
		return data, ".json", err
	case FormatText:
		if err := WriteText(&sb, r); err != nil {
			return nil, "", err
		}
		return []byte(sb.String()), ".txt", nil
	case FormatXLSX:
		data, err := XLSXBytes(r)
		return data, ".xlsx", err
	default:
		return nil, "", fmt.Errorf("unsupported report format: %s", format)
	}
}
