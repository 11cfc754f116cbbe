package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/feedback-radar/internal/domain/classifierlog"
)

type ClassifierLogRepository struct {
	db *sql.DB
}

func NewClassifierLogRepository(db *sql.DB) *ClassifierLogRepository {
	return &ClassifierLogRepository{db: db}
}

// Save inserts a classifier failure entry
func (r *ClassifierLogRepository) Save(ctx context.Context, e *domain.Entry) error {
	const q = `
INSERT INTO classifier_failures
  (category, user_type, message, created_at)
VALUES (?,?,?,?);
`
	category := stringOrDash(e.Category)
	userType := stringOrDash(e.UserType)
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, category, userType, e.Message, createdAt)
	return err
}

// Latest failures, newest first
func (r *ClassifierLogRepository) Latest(ctx context.Context, limit int) ([]*domain.Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, category, user_type, message, created_at
FROM classifier_failures
ORDER BY created_at DESC, id DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.Category, &e.UserType, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
