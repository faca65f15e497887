package feedback

import "context"

// Repository defines the interface for feedback persistence
type Repository interface {
	Create(ctx context.Context, fb *Feedback) error
	List(ctx context.Context, limit int) ([]*Feedback, error)
}
