package classifierlog

import "context"

// Repository defines persistence for classifier failures
type Repository interface {
	Save(ctx context.Context, e *Entry) error
	Latest(ctx context.Context, limit int) ([]*Entry, error)
}
