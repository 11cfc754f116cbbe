package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/feedback-radar/internal/domain/feedback"
)

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Save insert feedback record (records are immutable once created,
// duplicate IDs just refresh the row)
func (r *FeedbackRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO feedback
(id, source, content, category, user_type, created_at)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 source=VALUES(source), content=VALUES(content),
 category=VALUES(category), user_type=VALUES(user_type);
`
	source := stringOrDash(rec.Source)
	category := stringOrDash(rec.Category)
	userType := stringOrDash(string(rec.UserType))
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		rec.ID, source, rec.Content, category, userType, created,
	)
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
ORDER BY created_at DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(
			&rec.ID, &rec.Source, &rec.Content, &rec.Category, &rec.UserType, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// CohortAggregates groups feedback by (category, user_type) in one query:
// count, a bounded concatenated sample of contents, and the mean age in days.
// The separator must match what the aggregator splits on.
func (r *FeedbackRepository) CohortAggregates(ctx context.Context) ([]domain.CohortRow, error) {
	const q = `
SELECT category, user_type,
       COUNT(*) AS cnt,
       SUBSTRING(COALESCE(GROUP_CONCAT(content ORDER BY created_at SEPARATOR ' | '), ''), 1, 800) AS sample,
       COALESCE(AVG(TIMESTAMPDIFF(SECOND, created_at, NOW())) / 86400.0, 0) AS avg_age_days
FROM feedback
GROUP BY category, user_type
ORDER BY category, user_type;
`
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
