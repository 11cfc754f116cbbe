package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalysis "github.com/bryanwahyu/feedback-radar/internal/application/analysis"
	appfeedback "github.com/bryanwahyu/feedback-radar/internal/application/feedback"
	"github.com/bryanwahyu/feedback-radar/internal/domain/feedback"
)

type memRepo struct {
	records []*feedback.Record
	now     time.Time
}

func (m *memRepo) Save(ctx context.Context, rec *feedback.Record) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memRepo) Latest(ctx context.Context, limit int) ([]*feedback.Record, error) {
	out := append([]*feedback.Record(nil), m.records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) CohortAggregates(ctx context.Context) ([]feedback.CohortRow, error) {
	type key struct {
		cat string
		ut  feedback.UserType
	}
	counts := map[key]*feedback.CohortRow{}
	var order []key
	for _, rec := range m.records {
		k := key{rec.Category, rec.UserType}
		row, ok := counts[k]
		if !ok {
			row = &feedback.CohortRow{Category: rec.Category, UserType: rec.UserType}
			counts[k] = row
			order = append(order, k)
		}
		row.Count++
		if row.SampleConcat != "" {
			row.SampleConcat += " | "
		}
		row.SampleConcat += rec.Content
		row.AvgAgeDays += m.now.Sub(rec.CreatedAt).Hours() / 24
	}
	var rows []feedback.CohortRow
	for _, k := range order {
		row := counts[k]
		row.AvgAgeDays /= float64(row.Count)
		rows = append(rows, *row)
	}
	return rows, nil
}

type stubClock struct{ t time.Time }

func (c stubClock) Now() time.Time { return c.t }

func newTestServer(t *testing.T) (*httptest.Server, *memRepo) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &memRepo{now: now}

	analysisSvc := &appanalysis.Service{Feedback: repo, Clock: stubClock{t: now}}
	feedbackSvc := &appfeedback.Service{Repo: repo, Clock: stubClock{t: now}}

	srv := httptest.NewServer(NewRouter(feedbackSvc, analysisSvc))
	t.Cleanup(srv.Close)
	return srv, repo
}

func TestIngestAndListFeedback(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"source":"zendesk","content":"dashboard is painfully slow","category":"performance","user_type":"enterprise"}`
	resp, err := http.Post(srv.URL+"/v1/feedback", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rec feedback.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, feedback.UserTypeEnterprise, rec.UserType)

	listResp, err := http.Get(srv.URL + "/v1/feedback?limit=10")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var list []*feedback.Record
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)
}

func TestIngestFeedback_RejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []string{
		`{"content":"x","category":"performance","user_type":"admin"}`,
		`{"content":"","category":"performance","user_type":"free"}`,
		`{"content":"x","category":"","user_type":"free"}`,
		`not json`,
	}
	for _, body := range cases {
		resp, err := http.Post(srv.URL+"/v1/feedback", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body=%s", body)
	}
}

func TestRunAnalysis_ResponseShape(t *testing.T) {
	srv, repo := newTestServer(t)

	for i, content := range []string{"checkout broken", "payment failed", "card declined"} {
		repo.records = append(repo.records, &feedback.Record{
			ID: feedback.FeedbackID(string(rune('a' + i))), Content: content,
			Category: "billing", UserType: feedback.UserTypeEnterprise,
			CreatedAt: repo.now.Add(-6 * time.Hour),
		})
	}

	resp, err := http.Get(srv.URL + "/v1/analysis")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	for _, field := range []string{"analysis_time", "total_risks", "critical_count", "top_risks", "all_risks", "cached"} {
		assert.Contains(t, out, field)
	}
}

func TestTopRisks_ResponseShape(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/analysis/top")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Timestamp      time.Time         `json:"timestamp"`
		CriticalAlerts []json.RawMessage `json:"critical_alerts"`
		Summary        struct {
			TotalCritical  int    `json:"total_critical"`
			Recommendation string `json:"recommendation"`
		} `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "No critical issues requiring immediate action", out.Summary.Recommendation)
}

func TestExport_NotConfigured(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/analysis/export", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
