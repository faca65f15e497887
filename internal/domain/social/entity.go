package social

import (
	"strings"
	"time"
)

// Post represents a social media post mentioning a ticker.
// Long-form posts (reddit) carry Title/SelfText, short-form posts
// (twitter) carry Text. Absent fields stay empty strings so scoring
// math never sees a null.
type Post struct {
	ID        string    `json:"id,omitempty"`
	Source    string    `json:"source,omitempty"` // reddit, twitter
	Title     string    `json:"title,omitempty"`
	SelfText  string    `json:"selftext,omitempty"`
	Text      string    `json:"text,omitempty"`
	Author    string    `json:"author,omitempty"`
	URL       string    `json:"url,omitempty"`
	Score     int       `json:"score,omitempty"`
	Comments  int       `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ScoringText concatenates every textual field into one body used for
// meme intensity scanning.
func (p Post) ScoringText() string {
	return p.Title + " " + p.SelfText + " " + p.Text
}

// SentimentText returns the text used for sentiment analysis: title plus
// self-text for long-form posts, the short-form body otherwise.
func (p Post) SentimentText() string {
	if p.Title != "" || p.SelfText != "" {
		return strings.TrimSpace(p.Title + " " + p.SelfText)
	}
	return p.Text
}
