package analysis

import (
	"math"

	"github.com/bryanwahyu/feedback-radar/internal/domain/feedback"
)

// Multiplier tables are flat static configuration, bukan dispatch logic.
var categoryMultipliers = map[string]float64{
	"performance": 2.0,
	"reliability": 1.8,
	"billing":     1.7,
	"security":    2.5,
	"data-loss":   3.0,
}

const enterpriseMultiplier = 3.0

// SeverityScore applies the multiplier chain in a fixed order:
// base(count*10) -> user -> category -> recency -> sentiment -> trend,
// rounded half-up at the end. The order matters: floating point
// multiplication order can change the rounded result at the margins.
func SeverityScore(c Cohort, sentiment Sentiment, trend Trend) int {
	score := float64(c.Count) * 10

	if c.UserType == feedback.UserTypeEnterprise {
		score *= enterpriseMultiplier
	}

	// unknown categories stay at neutral weight, never an error
	if m, ok := categoryMultipliers[c.Category]; ok {
		score *= m
	}

	// strict less-than at both boundaries: exactly 1.0 or 7.0 days
	// falls to the lower multiplier
	switch {
	case c.AvgAgeDays < 1:
		score *= 1.5
	case c.AvgAgeDays < 7:
		score *= 1.2
	}

	switch sentiment {
	case SentimentCritical:
		score *= 1.4
	case SentimentNegative:
		score *= 1.2
	}

	if trend == TrendAccelerating {
		score *= 1.3
	}

	if score < 0 {
		return 0
	}
	// math.Round is half-away-from-zero, which equals half-up for the
	// non-negative values this chain produces
	return int(math.Round(score))
}
