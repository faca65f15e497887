package memory

import (
	"context"
	"sync"

	"hypewatch/internal/domain/feedback"
)

// FeedbackRepository is an in-process feedback.Repository used when no
// database is configured. Records live for the process lifetime only.
type FeedbackRepository struct {
	mu    sync.RWMutex
	items []*feedback.Feedback
}

// NewFeedbackRepository creates a new in-memory feedback repository
func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{}
}

// Create stores a feedback record
func (r *FeedbackRepository) Create(_ context.Context, fb *feedback.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *fb
	r.items = append(r.items, &stored)
	return nil
}

// List returns the most recent feedback records, newest first
func (r *FeedbackRepository) List(_ context.Context, limit int) ([]*feedback.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.items)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*feedback.Feedback, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		copied := *r.items[i]
		out = append(out, &copied)
	}
	return out, nil
}
