package analysis

import (
	"strings"

	"github.com/bryanwahyu/feedback-radar/internal/domain/feedback"
)

const (
	// MaxSampleChars caps the classifier input per cohort
	MaxSampleChars = 800
	// MaxSampleTexts caps the texts carried into sample_feedback
	MaxSampleTexts = 3
	// SampleSeparator is what the store uses to concatenate complaint texts
	SampleSeparator = " | "
)

// BuildCohorts turns raw aggregate rows into typed cohorts. Rows with a zero
// count are dropped; row order is preserved (it decides tie-breaks later).
func BuildCohorts(rows []feedback.CohortRow) []Cohort {
	cohorts := make([]Cohort, 0, len(rows))
	for _, row := range rows {
		if row.Count < 1 {
			continue
		}
		age := row.AvgAgeDays
		if age < 0 {
			age = 0
		}
		sample := row.SampleConcat
		if len(sample) > MaxSampleChars {
			sample = sample[:MaxSampleChars]
		}
		cohorts = append(cohorts, Cohort{
			Category:     row.Category,
			UserType:     row.UserType,
			Count:        row.Count,
			SampleTexts:  splitSample(row.SampleConcat),
			SampleConcat: sample,
			AvgAgeDays:   age,
		})
	}
	return cohorts
}

func splitSample(concat string) []string {
	if strings.TrimSpace(concat) == "" {
		return nil
	}
	parts := strings.Split(concat, SampleSeparator)
	out := make([]string, 0, MaxSampleTexts)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
		if len(out) == MaxSampleTexts {
			break
		}
	}
	return out
}
