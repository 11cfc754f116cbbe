package analysis

import (
	"time"

	"github.com/bryanwahyu/feedback-radar/internal/domain/feedback"
)

// Sentiment enum
type Sentiment string

const (
	SentimentCritical Sentiment = "critical"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentPositive Sentiment = "positive"
)

// ParseSentiment maps a label to a Sentiment; anything unrecognized is neutral
func ParseSentiment(label string) Sentiment {
	switch Sentiment(label) {
	case SentimentCritical, SentimentNegative, SentimentNeutral, SentimentPositive:
		return Sentiment(label)
	}
	return SentimentNeutral
}

// Trend enum
type Trend string

const (
	TrendAccelerating Trend = "accelerating"
	TrendRising       Trend = "rising"
	TrendStable       Trend = "stable"
)

// Cohort is the unit of scoring: feedback grouped by (category, user_type).
// Built fresh per analysis run, never persisted.
type Cohort struct {
	Category     string
	UserType     feedback.UserType
	Count        int
	SampleTexts  []string // first few complaint texts, for display
	SampleConcat string   // classifier input, capped at MaxSampleChars
	AvgAgeDays   float64
}

// RiskAssessment value object, one per cohort per run
type RiskAssessment struct {
	Category       string            `json:"category"`
	UserType       feedback.UserType `json:"user_type"`
	ComplaintCount int               `json:"complaint_count"`
	SeverityScore  int               `json:"severity_score"`
	Sentiment      Sentiment         `json:"sentiment"`
	Trend          Trend             `json:"trend"`
	Velocity       float64           `json:"velocity"`
	SampleFeedback []string          `json:"sample_feedback"`
	Recommendation string            `json:"recommendation"`
}

// Result is the top-level analysis response
type Result struct {
	AnalysisTime  time.Time         `json:"analysis_time"`
	TotalRisks    int               `json:"total_risks"`
	CriticalCount int               `json:"critical_count"`
	TopRisks      []*RiskAssessment `json:"top_risks"`
	AllRisks      []*RiskAssessment `json:"all_risks"`
	Cached        bool              `json:"cached"`
}

// TopRisksView is the condensed view for alerting dashboards
type TopRisksView struct {
	Timestamp      time.Time         `json:"timestamp"`
	CriticalAlerts []*RiskAssessment `json:"critical_alerts"`
	Summary        Summary           `json:"summary"`
}

type Summary struct {
	TotalCritical  int    `json:"total_critical"`
	Recommendation string `json:"recommendation"`
}

// NoCriticalIssues is returned as the summary recommendation when the run
// produced no risks at all.
const NoCriticalIssues = "No critical issues requiring immediate action"
