package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"hypewatch/internal/domain/feedback"
	"hypewatch/pkg/errors"
	"hypewatch/pkg/logger"
)

// Service records user reactions to predictions
type Service struct {
	repo feedback.Repository
	log  *logger.Logger
}

// NewService creates a feedback service
func NewService(repo feedback.Repository) *Service {
	return &Service{
		repo: repo,
		log:  logger.Get().With("component", "feedback_service"),
	}
}

// Record stores one feedback note for a conversation
func (s *Service) Record(ctx context.Context, conversationID, rating, notes string) (*feedback.Feedback, error) {
	rating = strings.TrimSpace(rating)
	if rating == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty feedback rating")
	}

	fb := &feedback.Feedback{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Rating:         rating,
		Notes:          strings.TrimSpace(notes),
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, fb); err != nil {
		return nil, errors.Wrap(err, "failed to record feedback")
	}

	s.log.Infof("recorded feedback %s for conversation %s", fb.ID, conversationID)
	return fb, nil
}

// Recent returns the latest feedback records
func (s *Service) Recent(ctx context.Context, limit int) ([]*feedback.Feedback, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.List(ctx, limit)
}
