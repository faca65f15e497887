package feedback

import "time"

// Feedback is a user reaction to a prediction, keyed by conversation
type Feedback struct {
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"conversation_id" db:"conversation_id"`
	Rating         string    `json:"rating" db:"rating"`
	Notes          string    `json:"notes" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
