package feedback

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Latest(ctx context.Context, limit int) ([]*Record, error)

	// CohortAggregates returns one row per (category, user_type) pair with
	// count, a concatenated text sample, and the mean record age in days.
	CohortAggregates(ctx context.Context) ([]CohortRow, error)
}
