package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/feedback-radar/internal/domain/analysis"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a customer feedback analyst. Classify the overall sentiment of the complaint texts you are given. You must produce one valid JSON object only (no markdown, no commentary). Do not include code fences.

Requirements:
- Output must be a single JSON object.
- sentiment must be exactly one of: critical, negative, neutral, positive.
- Use "critical" when customers describe outages, data loss, blocked work, or threaten to churn.
- confidence is a number between 0 and 1.

Schema (example with empty values):
{
  "sentiment": "<critical|negative|neutral|positive>",
  "confidence": 0.0
}`
}

// GetUserPrompt builds a compact user message around the cohort sample.
// The sample is capped so prompts stay small regardless of cohort size.
func GetUserPrompt(sample string) string {
	if len(sample) > analysis.MaxSampleChars {
		sample = sample[:analysis.MaxSampleChars]
	}
	return fmt.Sprintf("Classify the sentiment of these customer complaints and respond with the JSON per schema. Complaints: %s", sample)
}

// ParseSentimentResponse parses a classifier response defensively. Model
// output is unreliable, so this is dual-path: a well-formed embedded JSON
// object with a sentiment field wins (unknown/absent field -> neutral);
// anything else falls back to keyword scanning. It never returns an error --
// malformed output degrades to a keyword match or neutral.
func ParseSentimentResponse(raw string) (analysis.Sentiment, float64) {
	if obj, ok := extractJSONObject(raw); ok {
		var parsed struct {
			Sentiment  string  `json:"sentiment"`
			Confidence float64 `json:"confidence"`
		}
		if err := json.Unmarshal(obj, &parsed); err == nil {
			return analysis.ParseSentiment(strings.ToLower(strings.TrimSpace(parsed.Sentiment))), parsed.Confidence
		}
	}

	// keyword fallback for non-JSON responses
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "critical"):
		return analysis.SentimentCritical, 0
	case strings.Contains(lower, "negative"):
		return analysis.SentimentNegative, 0
	default:
		return analysis.SentimentNeutral, 0
	}
}

// extractJSONObject pulls the first {...} span out of the response, so JSON
// wrapped in prose or code fences still parses.
func extractJSONObject(raw string) ([]byte, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	obj := []byte(raw[start : end+1])
	if !json.Valid(obj) {
		return nil, false
	}
	return obj, true
}
