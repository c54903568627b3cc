package textanalysis

import (
	"fmt"
	"strings"
)

const (
	reportWidth       = 80
	maxReportPoints   = 5
	maxPointReportLen = 100
)

// SummaryReport renders a comparison as plain text
func SummaryReport(c *Comparison) string {
	var sb strings.Builder
	heavy := strings.Repeat("=", reportWidth)
	light := strings.Repeat("-", reportWidth)

	sb.WriteString(heavy + "\n")
	sb.WriteString("PREDICTION ANALYSIS REPORT\n")
	sb.WriteString(heavy + "\n\n")

	if c == nil {
		sb.WriteString("Error: " + ErrNoAnalyses.Error() + "\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Total Predictions Analyzed: %d\n", c.Total)
	fmt.Fprintf(&sb, "Models Used: %s\n", strings.Join(c.Models, ", "))
	fmt.Fprintf(&sb, "Average Word Count: %.0f\n\n", c.AvgWordCount)

	sb.WriteString("Sentiment Distribution:\n")
	for _, t := range c.Tones {
		fmt.Fprintf(&sb, "  - %s: %s\n", t.Name, t.Tone)
	}

	sb.WriteString("\n" + light + "\n")
	sb.WriteString("DETAILED ANALYSES:\n")
	sb.WriteString(light + "\n\n")

	for _, a := range c.Analyses {
		fmt.Fprintf(&sb, "\nFile: %s\n", a.Name)
		fmt.Fprintf(&sb, "Model: %s\n", a.Model)
		fmt.Fprintf(&sb, "Words: %d, Lines: %d\n", a.WordCount, a.LineCount)
		fmt.Fprintf(&sb, "Sentiment: %s (score: %.2f)\n", a.Sentiment.Tone, a.Sentiment.Score)

		if len(a.KeyPoints) > 0 {
			fmt.Fprintf(&sb, "\nKey Points (%d):\n", len(a.KeyPoints))
			for i, p := range a.KeyPoints {
				if i == maxReportPoints {
					break
				}
				fmt.Fprintf(&sb, "  %d. %s...\n", i+1, truncate(p, maxPointReportLen))
			}
		}

		if counts := a.Numbers.Counts(); len(counts) > 0 {
			sb.WriteString("\nNumerical Predictions:\n")
			for _, mc := range counts {
				fmt.Fprintf(&sb, "  - %s: %d mentions\n", mc.Type, mc.Count)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
