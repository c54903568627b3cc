// Package textanalysis extracts key points, numbers, and tone from model
// generated prediction text. Everything here is a pure function over strings.
package textanalysis

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Tone labels
const (
	ToneUncertain   = "cautious/uncertain"
	ToneOptimistic  = "optimistic"
	TonePessimistic = "pessimistic"
	ToneBalanced    = "balanced"
)

// UnknownModel is reported when the text has no "Model:" header
const UnknownModel = "unknown"

const minKeyPointLength = 20

var (
	keyPointPrefixes = []string{"-", "•", "*", "1.", "2.", "3.", "4.", "5."}
	keyPointPhrases  = []string{"key trend", "prediction", "factor", "pattern"}

	positiveWords = []string{"increase", "growth", "rising", "improvement", "positive",
		"expansion", "progress", "upturn", "gain", "advance"}
	negativeWords = []string{"decrease", "decline", "falling", "reduction", "negative",
		"contraction", "deterioration", "downturn", "loss", "drop"}
	uncertaintyWords = []string{"may", "might", "could", "possible", "uncertain",
		"variable", "depends", "unclear", "potential"}

	yearPattern    = regexp.MustCompile(`(?:by|in|until|around)\s+(\d{4})`)
	percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	numberPattern  = regexp.MustCompile(`(\d+(?:,\d{3})*(?:\.\d+)?)\s*(million|billion|thousand)`)
)

// ErrNoAnalyses is returned by Compare for an empty input
var ErrNoAnalyses = errors.New("no analyses to compare")

// KeyPoints returns the trimmed lines that look like bullets, numbered items,
// or mention a key phrase. Lines of 20 characters or fewer are ignored.
func KeyPoints(text string) []string {
	points := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= minKeyPointLength {
			continue
		}
		if hasAnyPrefix(line, keyPointPrefixes) || containsAny(strings.ToLower(line), keyPointPhrases) > 0 {
			points = append(points, line)
		}
	}
	return points
}

// LargeNumber is a figure followed by a magnitude word
type LargeNumber struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// NumericMentions groups the numbers found in a text
type NumericMentions struct {
	// Years are the distinct years following by/in/until/around, first-seen order
	Years        []string      `json:"years,omitempty"`
	YearCount    int           `json:"year_count"`
	Percentages  []float64     `json:"percentages,omitempty"`
	LargeNumbers []LargeNumber `json:"large_numbers,omitempty"`
}

// Empty reports whether nothing was found
func (m NumericMentions) Empty() bool {
	return m.YearCount == 0 && len(m.Percentages) == 0 && len(m.LargeNumbers) == 0
}

// MentionCount is one line of the numeric summary
type MentionCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Counts lists the non-empty groups in a fixed order
func (m NumericMentions) Counts() []MentionCount {
	var out []MentionCount
	if m.YearCount > 0 {
		out = append(out, MentionCount{Type: "years_mentioned", Count: m.YearCount})
	}
	if len(m.Percentages) > 0 {
		out = append(out, MentionCount{Type: "percentages", Count: len(m.Percentages)})
	}
	if len(m.LargeNumbers) > 0 {
		out = append(out, MentionCount{Type: "large_numbers", Count: len(m.LargeNumbers)})
	}
	return out
}

// ExtractNumericMentions finds years, percentages, and large numbers
func ExtractNumericMentions(text string) NumericMentions {
	var m NumericMentions

	seen := make(map[string]bool)
	for _, match := range yearPattern.FindAllStringSubmatch(text, -1) {
		m.YearCount++
		if !seen[match[1]] {
			seen[match[1]] = true
			m.Years = append(m.Years, match[1])
		}
	}

	for _, match := range percentPattern.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(match[1], 64); err == nil {
			m.Percentages = append(m.Percentages, v)
		}
	}

	for _, match := range numberPattern.FindAllStringSubmatch(text, -1) {
		m.LargeNumbers = append(m.LargeNumbers, LargeNumber{Value: match[1], Unit: match[2]})
	}
	return m
}

// Sentiment counts which indicator words occur in a text
type Sentiment struct {
	Positive    int     `json:"positive_indicators"`
	Negative    int     `json:"negative_indicators"`
	Uncertainty int     `json:"uncertainty_indicators"`
	Score       float64 `json:"sentiment_score"`
	Tone        string  `json:"overall_tone"`
}

// AnalyzeSentiment counts word presence, not occurrences. Matching is by
// case-insensitive substring.
func AnalyzeSentiment(text string) Sentiment {
	lower := strings.ToLower(text)
	s := Sentiment{
		Positive:    containsAny(lower, positiveWords),
		Negative:    containsAny(lower, negativeWords),
		Uncertainty: containsAny(lower, uncertaintyWords),
	}

	total := s.Positive + s.Negative + s.Uncertainty
	if total < 1 {
		total = 1
	}
	s.Score = float64(s.Positive-s.Negative) / float64(total)
	s.Tone = tone(s.Positive, s.Negative, s.Uncertainty)
	return s
}

func tone(positive, negative, uncertainty int) string {
	p, n := float64(positive), float64(negative)
	switch {
	case uncertainty > positive+negative:
		return ToneUncertain
	case p > n*1.5:
		return ToneOptimistic
	case n > p*1.5:
		return TonePessimistic
	default:
		return ToneBalanced
	}
}

// Analysis is the full breakdown of one prediction text
type Analysis struct {
	Name      string          `json:"filename"`
	Model     string          `json:"model"`
	WordCount int             `json:"word_count"`
	LineCount int             `json:"line_count"`
	KeyPoints []string        `json:"key_points"`
	Numbers   NumericMentions `json:"numerical_predictions"`
	Sentiment Sentiment       `json:"sentiment"`
}

// AnalyzeText analyzes one text. A first line of "Model: <name>" sets the model.
func AnalyzeText(name, text string) Analysis {
	return Analysis{
		Name:      name,
		Model:     ParseModelHeader(text),
		WordCount: len(strings.Fields(text)),
		LineCount: strings.Count(text, "\n") + 1,
		KeyPoints: KeyPoints(text),
		Numbers:   ExtractNumericMentions(text),
		Sentiment: AnalyzeSentiment(text),
	}
}

// ParseModelHeader returns the model named on a leading "Model:" line
func ParseModelHeader(text string) string {
	if !strings.HasPrefix(text, "Model:") {
		return UnknownModel
	}
	first, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(strings.TrimPrefix(first, "Model:"))
}

// ToneEntry pairs an analyzed text with its tone
type ToneEntry struct {
	Name string `json:"filename"`
	Tone string `json:"tone"`
}

// Comparison aggregates several analyses
type Comparison struct {
	Total        int         `json:"total_predictions"`
	Models       []string    `json:"models_used"`
	AvgWordCount float64     `json:"avg_word_count"`
	Tones        []ToneEntry `json:"sentiment_distribution"`
	Analyses     []Analysis  `json:"individual_analyses"`
}

// Compare aggregates analyses, keeping their order. Models are de-duplicated
// and sorted.
func Compare(analyses []Analysis) (*Comparison, error) {
	if len(analyses) == 0 {
		return nil, ErrNoAnalyses
	}

	c := &Comparison{
		Total:    len(analyses),
		Analyses: analyses,
		Tones:    make([]ToneEntry, 0, len(analyses)),
	}

	models := make(map[string]bool)
	words := 0
	for _, a := range analyses {
		models[a.Model] = true
		words += a.WordCount
		c.Tones = append(c.Tones, ToneEntry{Name: a.Name, Tone: a.Sentiment.Tone})
	}
	for m := range models {
		c.Models = append(c.Models, m)
	}
	sort.Strings(c.Models)
	c.AvgWordCount = float64(words) / float64(len(analyses))
	return c, nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// containsAny counts how many of words occur in s
func containsAny(s string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(s, w) {
			n++
		}
	}
	return n
}
