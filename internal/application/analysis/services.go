package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/bryanwahyu/feedback-radar/internal/application"
	domain "github.com/bryanwahyu/feedback-radar/internal/domain/analysis"
	"github.com/bryanwahyu/feedback-radar/internal/domain/classifierlog"
	"github.com/bryanwahyu/feedback-radar/internal/domain/feedback"
)

const (
	topRisksLimit       = 5
	criticalAlertsLimit = 3
	// a risk counts as critical above this score
	criticalScoreThreshold = 100
)

// Service is the result assembler: it orchestrates the whole scoring
// pipeline for one analysis invocation. Service is stateless and safe for
// concurrent use; concurrent invocations only race on the cache write,
// which is idempotent (last writer wins).
type Service struct {
	Feedback   feedback.Repository
	Classifier domain.Classifier      // optional; nil means every cohort scores neutral
	Cache      domain.Cache           // optional, best-effort
	Exports    domain.ExportStore     // optional, only for the export use-case
	Failures   classifierlog.Repository // optional, best-effort failure log
	Clock      application.Clock
}

// Run executes one analysis: cache check, aggregate, score every cohort,
// sort, cache. Only a store failure aborts; everything else degrades.
func (s *Service) Run(ctx context.Context) (*domain.Result, error) {
	if cached := s.readCache(ctx); cached != nil {
		return cached, nil
	}

	rows, err := s.Feedback.CohortAggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregating feedback cohorts: %w", err)
	}
	cohorts := domain.BuildCohorts(rows)

	risks := make([]*domain.RiskAssessment, 0, len(cohorts))
	for _, c := range cohorts {
		// classifier calls run sequentially, one cohort at a time
		sentiment := s.classify(ctx, c)
		velocity := domain.Velocity(c.Count, c.AvgAgeDays)
		trend := domain.ClassifyTrend(velocity)

		risks = append(risks, &domain.RiskAssessment{
			Category:       c.Category,
			UserType:       c.UserType,
			ComplaintCount: c.Count,
			SeverityScore:  domain.SeverityScore(c, sentiment, trend),
			Sentiment:      sentiment,
			Trend:          trend,
			Velocity:       domain.RoundVelocity(velocity),
			SampleFeedback: c.SampleTexts,
			Recommendation: domain.Recommend(c.Category, c.UserType, trend),
		})
	}

	// stable sort: ties keep cohort discovery order
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].SeverityScore > risks[j].SeverityScore
	})

	critical := 0
	for _, r := range risks {
		if r.SeverityScore > criticalScoreThreshold {
			critical++
		}
	}

	top := risks
	if len(top) > topRisksLimit {
		top = top[:topRisksLimit]
	}

	res := &domain.Result{
		AnalysisTime:  s.Clock.Now().UTC(),
		TotalRisks:    len(risks),
		CriticalCount: critical,
		TopRisks:      top,
		AllRisks:      risks,
		Cached:        false,
	}
	s.writeCache(ctx, res)
	return res, nil
}

// TopRisks is the condensed alerting view over a full run
func (s *Service) TopRisks(ctx context.Context) (*domain.TopRisksView, error) {
	res, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}

	alerts := res.TopRisks
	if len(alerts) > criticalAlertsLimit {
		alerts = alerts[:criticalAlertsLimit]
	}

	recommendation := domain.NoCriticalIssues
	if len(res.TopRisks) > 0 {
		recommendation = res.TopRisks[0].Recommendation
	}

	return &domain.TopRisksView{
		Timestamp:      s.Clock.Now().UTC(),
		CriticalAlerts: alerts,
		Summary: domain.Summary{
			TotalCritical:  res.CriticalCount,
			Recommendation: recommendation,
		},
	}, nil
}

// Export uploads the current analysis JSON to object storage and returns
// its URL. On-demand only; nothing is archived in the background.
func (s *Service) Export(ctx context.Context) (string, error) {
	if s.Exports == nil {
		return "", fmt.Errorf("export store not configured")
	}
	res, err := s.Run(ctx)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("marshaling analysis result: %w", err)
	}
	key := fmt.Sprintf("analysis/%s.json", res.AnalysisTime.Format("2006-01-02T15-04-05Z"))
	return s.Exports.Put(ctx, key, b, "application/json")
}

// classify is strictly best-effort: any classifier error degrades this one
// cohort to neutral, gets logged, and never aborts the run
func (s *Service) classify(ctx context.Context, c domain.Cohort) domain.Sentiment {
	if s.Classifier == nil {
		return domain.SentimentNeutral
	}
	sentiment, err := s.Classifier.ClassifySentiment(ctx, c.SampleConcat)
	if err != nil {
		log.Printf("sentiment classification failed category=%s user_type=%s: %v", c.Category, c.UserType, err)
		if s.Failures != nil {
			if saveErr := s.Failures.Save(ctx, &classifierlog.Entry{
				Category:  c.Category,
				UserType:  string(c.UserType),
				Message:   err.Error(),
				CreatedAt: s.Clock.Now(),
			}); saveErr != nil {
				log.Printf("classifier failure log write failed: %v", saveErr)
			}
		}
		return domain.SentimentNeutral
	}
	return sentiment
}

func (s *Service) readCache(ctx context.Context) *domain.Result {
	if s.Cache == nil {
		return nil
	}
	b, err := s.Cache.Get(ctx, domain.CacheKeyLatest)
	if err != nil {
		if err != domain.ErrCacheMiss {
			log.Printf("analysis cache read failed: %v", err)
		}
		return nil
	}
	var res domain.Result
	if err := json.Unmarshal(b, &res); err != nil {
		log.Printf("analysis cache payload unreadable, recomputing: %v", err)
		return nil
	}
	res.Cached = true
	return &res
}

func (s *Service) writeCache(ctx context.Context, res *domain.Result) {
	if s.Cache == nil {
		return
	}
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, domain.CacheKeyLatest, b, domain.CacheTTL); err != nil {
		// cache write failure is silently ignored (just logged)
		log.Printf("analysis cache write failed: %v", err)
	}
}
