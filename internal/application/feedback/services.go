package feedback

import (
	"context"

	"github.com/google/uuid"

	"github.com/bryanwahyu/feedback-radar/internal/application"
	domain "github.com/bryanwahyu/feedback-radar/internal/domain/feedback"
)

// Service implements use-cases untuk feedback records
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

// Command untuk ingest feedback
type IngestCommand struct {
	Source   string
	Content  string
	Category string
	UserType string
}

// Ingest stores one feedback record; id dan created_at diisi di sini
func (s *Service) Ingest(ctx context.Context, cmd IngestCommand) (*domain.Record, error) {
	rec := &domain.Record{
		ID:        domain.FeedbackID(uuid.New().String()),
		Source:    cmd.Source,
		Content:   cmd.Content,
		Category:  cmd.Category,
		UserType:  domain.UserType(cmd.UserType),
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Latest ambil N feedback terakhir, newest first
func (s *Service) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	return s.Repo.Latest(ctx, limit)
}
