package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	domain "github.com/bryanwahyu/feedback-radar/internal/domain/feedback"
)

type FeedbackRepository struct{ db *sql.DB }

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository { return &FeedbackRepository{db: db} }

// Save insert feedback record
func (r *FeedbackRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO feedback
(id, source, content, category, user_type, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
 source = EXCLUDED.source,
 content = EXCLUDED.content,
 category = EXCLUDED.category,
 user_type = EXCLUDED.user_type;`

	source := stringOrDash(rec.Source)
	category := stringOrDash(rec.Category)
	userType := stringOrDash(string(rec.UserType))
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q, rec.ID, source, rec.Content, category, userType, created)
	return err
}

// Latest feedback records, newest first
func (r *FeedbackRepository) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, source, content, category, user_type, created_at
FROM feedback
ORDER BY created_at DESC LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.Content, &rec.Category, &rec.UserType, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// CohortAggregates: postgres flavor of the grouped aggregate (string_agg +
// EXTRACT(EPOCH)), same row shape and separator as the mysql repo.
func (r *FeedbackRepository) CohortAggregates(ctx context.Context) ([]domain.CohortRow, error) {
	const q = `
SELECT category, user_type,
       COUNT(*) AS cnt,
       LEFT(COALESCE(STRING_AGG(content, ' | ' ORDER BY created_at), ''), 800) AS sample,
       COALESCE(AVG(EXTRACT(EPOCH FROM (NOW() - created_at))) / 86400.0, 0) AS avg_age_days
FROM feedback
GROUP BY category, user_type
ORDER BY category, user_type;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying cohort aggregates: %w", err)
	}
	defer rows.Close()

	var out []domain.CohortRow
	for rows.Next() {
		var row domain.CohortRow
		if err := rows.Scan(&row.Category, &row.UserType, &row.Count, &row.SampleConcat, &row.AvgAgeDays); err != nil {
			return nil, fmt.Errorf("scanning cohort row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
