package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/feedback-radar/internal/domain/analysis"
	"github.com/bryanwahyu/feedback-radar/internal/domain/classifierlog"
	"github.com/bryanwahyu/feedback-radar/internal/domain/feedback"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeRepo struct {
	rows []feedback.CohortRow
	err  error
}

func (r *fakeRepo) Save(ctx context.Context, rec *feedback.Record) error { return nil }
func (r *fakeRepo) Latest(ctx context.Context, limit int) ([]*feedback.Record, error) {
	return nil, nil
}
func (r *fakeRepo) CohortAggregates(ctx context.Context) ([]feedback.CohortRow, error) {
	return r.rows, r.err
}

type fakeClassifier struct {
	sentiment domain.Sentiment
	failOn    string // sample substring that triggers an error
	calls     int
}

func (c *fakeClassifier) ClassifySentiment(ctx context.Context, sample string) (domain.Sentiment, error) {
	c.calls++
	if c.failOn != "" && strings.Contains(sample, c.failOn) {
		return domain.SentimentNeutral, errors.New("classifier timeout")
	}
	return c.sentiment, nil
}

type fakeCache struct {
	data     map[string][]byte
	getErr   error
	setErr   error
	setCalls int
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	b, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return b, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

type fakeFailures struct{ entries []*classifierlog.Entry }

func (f *fakeFailures) Save(ctx context.Context, e *classifierlog.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}
func (f *fakeFailures) Latest(ctx context.Context, limit int) ([]*classifierlog.Entry, error) {
	return f.entries, nil
}

func testRows() []feedback.CohortRow {
	return []feedback.CohortRow{
		{Category: "billing", UserType: feedback.UserTypePro, Count: 2,
			SampleConcat: "double charged | invoice wrong", AvgAgeDays: 10},
		{Category: "performance", UserType: feedback.UserTypeEnterprise, Count: 3,
			SampleConcat: "dashboard slow | queries crawl | exports hang", AvgAgeDays: 0.5},
		{Category: "miscellaneous", UserType: feedback.UserTypeFree, Count: 1,
			SampleConcat: "just a thought", AvgAgeDays: 20},
	}
}

func newService(repo *fakeRepo, cls domain.Classifier, cache domain.Cache) *Service {
	return &Service{
		Feedback:   repo,
		Classifier: cls,
		Cache:      cache,
		Clock:      fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func TestRun_FullPipeline(t *testing.T) {
	cls := &fakeClassifier{sentiment: domain.SentimentCritical}
	svc := newService(&fakeRepo{rows: testRows()}, cls, newFakeCache())

	res, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Cached)
	assert.Equal(t, 3, res.TotalRisks)
	assert.Equal(t, 3, cls.calls, "one classifier call per cohort")
	assert.Len(t, res.TopRisks, 3, "top_risks = min(5, total)")

	// sorted descending, top is a prefix of all
	for i := 1; i < len(res.AllRisks); i++ {
		assert.GreaterOrEqual(t, res.AllRisks[i-1].SeverityScore, res.AllRisks[i].SeverityScore)
	}
	assert.Equal(t, res.AllRisks[:len(res.TopRisks)], res.TopRisks)

	// enterprise performance cohort wins:
	// 3*10 * 3.0 * 2.0 * 1.5 * 1.4(critical) * 1.3(accelerating, v=6) = 491
	lead := res.AllRisks[0]
	assert.Equal(t, "performance", lead.Category)
	assert.Equal(t, 491, lead.SeverityScore)
	assert.Equal(t, domain.TrendAccelerating, lead.Trend)
	assert.Equal(t, 6.0, lead.Velocity)

	// critical_count = entries with score > 100
	critical := 0
	for _, r := range res.AllRisks {
		if r.SeverityScore > 100 {
			critical++
		}
	}
	assert.Equal(t, critical, res.CriticalCount)
	assert.Equal(t, 1, critical)
}

func TestRun_StoreFailureIsFatal(t *testing.T) {
	svc := newService(&fakeRepo{err: errors.New("connection refused")}, nil, newFakeCache())

	res, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, res, "no partial results on store failure")
}

func TestRun_CacheRoundTrip(t *testing.T) {
	cache := newFakeCache()
	svc := newService(&fakeRepo{rows: testRows()}, &fakeClassifier{sentiment: domain.SentimentNegative}, cache)

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, cache.setCalls)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, cache.setCalls, "cache hit skips recomputation")

	// payload identical modulo the cached flag
	a, _ := json.Marshal(first.AllRisks)
	b, _ := json.Marshal(second.AllRisks)
	assert.Equal(t, string(a), string(b))
}

func TestRun_CacheErrorsBehaveAsMiss(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	svc := newService(&fakeRepo{rows: testRows()}, &fakeClassifier{sentiment: domain.SentimentNeutral}, cache)

	res, err := svc.Run(context.Background())
	require.NoError(t, err, "cache unavailability never fails the run")
	assert.False(t, res.Cached)
	assert.Equal(t, 3, res.TotalRisks)
}

func TestRun_ClassifierFailureDegradesOneCohort(t *testing.T) {
	failures := &fakeFailures{}
	cls := &fakeClassifier{sentiment: domain.SentimentCritical, failOn: "invoice wrong"}
	svc := newService(&fakeRepo{rows: testRows()}, cls, nil)
	svc.Failures = failures

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, res.TotalRisks, "failing cohort still produces an assessment")

	var billing, performance *domain.RiskAssessment
	for _, r := range res.AllRisks {
		switch r.Category {
		case "billing":
			billing = r
		case "performance":
			performance = r
		}
	}
	require.NotNil(t, billing)
	require.NotNil(t, performance)

	assert.Equal(t, domain.SentimentNeutral, billing.Sentiment)
	// 2*10 * 1.7(billing) with no sentiment multiplier = 34
	assert.Equal(t, 34, billing.SeverityScore)

	// other cohorts keep their classifier result
	assert.Equal(t, domain.SentimentCritical, performance.Sentiment)

	require.Len(t, failures.entries, 1)
	assert.Equal(t, "billing", failures.entries[0].Category)
}

func TestRun_NoClassifierMeansNeutral(t *testing.T) {
	svc := newService(&fakeRepo{rows: testRows()}, nil, nil)
	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	for _, r := range res.AllRisks {
		assert.Equal(t, domain.SentimentNeutral, r.Sentiment)
	}
}

func TestTopRisks_View(t *testing.T) {
	svc := newService(&fakeRepo{rows: testRows()}, &fakeClassifier{sentiment: domain.SentimentCritical}, nil)

	view, err := svc.TopRisks(context.Background())
	require.NoError(t, err)

	assert.LessOrEqual(t, len(view.CriticalAlerts), 3)
	assert.Equal(t, 1, view.Summary.TotalCritical)
	// summary carries the top risk's recommendation
	assert.Contains(t, view.Summary.Recommendation, "URGENT")
}

func TestTopRisks_EmptyCorpus(t *testing.T) {
	svc := newService(&fakeRepo{rows: nil}, nil, nil)

	view, err := svc.TopRisks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, view.CriticalAlerts)
	assert.Equal(t, 0, view.Summary.TotalCritical)
	assert.Equal(t, domain.NoCriticalIssues, view.Summary.Recommendation)
}

type fakeExports struct {
	key  string
	data []byte
}

func (f *fakeExports) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.key, f.data = key, data
	return "http://minio.local/exports/" + key, nil
}

func TestExport(t *testing.T) {
	exports := &fakeExports{}
	svc := newService(&fakeRepo{rows: testRows()}, nil, nil)
	svc.Exports = exports

	url, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.Contains(t, url, "analysis/")

	var res domain.Result
	require.NoError(t, json.Unmarshal(exports.data, &res))
	assert.Equal(t, 3, res.TotalRisks)
}

func TestRun_TopRisksCappedAtFive(t *testing.T) {
	rows := make([]feedback.CohortRow, 0, 8)
	for _, cat := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		rows = append(rows, feedback.CohortRow{
			Category: cat, UserType: feedback.UserTypeFree, Count: 1,
			SampleConcat: "meh", AvgAgeDays: 15,
		})
	}
	svc := newService(&fakeRepo{rows: rows}, nil, nil)

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, res.TotalRisks)
	assert.Len(t, res.TopRisks, 5)
	assert.Equal(t, res.AllRisks[:5], res.TopRisks)

	// stable sort keeps discovery order on ties
	for i, r := range res.AllRisks {
		assert.Equal(t, rows[i].Category, r.Category)
	}
}
