package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"

	"hypewatch/internal/metrics"
	"hypewatch/internal/services/feedback"
	"hypewatch/internal/services/prediction"
	"hypewatch/pkg/errors"
	"hypewatch/pkg/logger"
)

// maxHistoryEntries caps per-conversation history to bound memory
const maxHistoryEntries = 50

const promptReply = "Give me a stock ticker (like GME or TSLA) and I'll read the memes for you. " +
	"You can also ask me to explain my methodology, or leave a note with `feedback: ...`."

const feedbackReply = "Thanks, noted! Feedback keeps the hype-o-meter honest."

// Entry is one message in a conversation history
type Entry struct {
	Role string    `json:"role"` // user|bot
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Service routes free-text messages to the analysis pipeline, the
// methodology explainer or the feedback recorder, keeping a bounded
// per-conversation history.
type Service struct {
	predictions *prediction.Service
	feedback    *feedback.Service

	mu        sync.Mutex
	histories map[string][]Entry
	lastRun   map[string]*prediction.Analysis

	log *logger.Logger
}

// NewService creates a conversation service
func NewService(predictions *prediction.Service, fb *feedback.Service) *Service {
	return &Service{
		predictions: predictions,
		feedback:    fb,
		histories:   make(map[string][]Entry),
		lastRun:     make(map[string]*prediction.Analysis),
		log:         logger.Get().With("component", "conversation_service"),
	}
}

// HandleMessage routes one user message and returns the reply text
func (s *Service) HandleMessage(ctx context.Context, conversationID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.Queries.WithLabelValues("no_ticker").Inc()
		return promptReply, nil
	}

	s.remember(conversationID, "user", text)

	reply, err := s.route(ctx, conversationID, text)
	if err != nil {
		return "", err
	}

	s.remember(conversationID, "bot", reply)
	return reply, nil
}

// History returns a copy of the conversation history
func (s *Service) History(conversationID string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.histories[conversationID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func (s *Service) route(ctx context.Context, conversationID, text string) (string, error) {
	lower := strings.ToLower(text)

	if strings.HasPrefix(lower, "feedback:") {
		metrics.Queries.WithLabelValues("feedback").Inc()
		return s.recordFeedback(ctx, conversationID, strings.TrimSpace(text[len("feedback:"):]))
	}

	if isMethodologyQuery(lower) {
		metrics.Queries.WithLabelValues("help").Inc()
		return s.explain(conversationID), nil
	}

	ticker, ok := extractTicker(text)
	if !ok {
		metrics.Queries.WithLabelValues("no_ticker").Inc()
		return promptReply, nil
	}

	metrics.Queries.WithLabelValues("analysis").Inc()

	result, err := s.predictions.Analyze(ctx, ticker)
	if err != nil {
		return "", errors.Wrapf(err, "analysis failed for %s", ticker)
	}

	s.mu.Lock()
	s.lastRun[conversationID] = result
	s.mu.Unlock()

	return formatAnalysis(result), nil
}

func (s *Service) recordFeedback(ctx context.Context, conversationID, notes string) (string, error) {
	if notes == "" {
		return "Feedback about what? Try `feedback: loved the GME call`.", nil
	}

	if _, err := s.feedback.Record(ctx, conversationID, ratingFor(notes), notes); err != nil {
		s.log.Errorf("failed to record feedback: %v", err)
		return "", errors.Wrap(err, "failed to record feedback")
	}
	return feedbackReply, nil
}

func (s *Service) explain(conversationID string) string {
	s.mu.Lock()
	last := s.lastRun[conversationID]
	s.mu.Unlock()

	if last != nil {
		return last.Explanation
	}
	return "Ask me about a ticker first, then I can walk you through the numbers behind the call. " +
		"In short: meme slang density, crowd sentiment and finance-tuned sentiment get mixed into " +
		"one weighted score, and the score picks a direction."
}

func (s *Service) remember(conversationID, role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append(s.histories[conversationID], Entry{Role: role, Text: text, At: time.Now()})
	if len(entries) > maxHistoryEntries {
		entries = entries[len(entries)-maxHistoryEntries:]
	}
	s.histories[conversationID] = entries
}

// extractTicker returns the first plausible ticker token: an alphabetic
// word of 3 to 5 characters after stripping surrounding punctuation.
func extractTicker(text string) (string, bool) {
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, "$?!.,")
		if len(word) <= 2 || len(word) > 5 {
			continue
		}
		if !isAlpha(word) {
			continue
		}
		return strings.ToUpper(word), true
	}
	return "", false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func isMethodologyQuery(lower string) bool {
	return strings.Contains(lower, "explain") ||
		strings.Contains(lower, "methodology") ||
		strings.Contains(lower, "how do") ||
		strings.Contains(lower, "how does")
}

func ratingFor(notes string) string {
	lower := strings.ToLower(notes)
	for _, w := range []string{"love", "great", "good", "nice", "helpful", "thanks", "accurate"} {
		if strings.Contains(lower, w) {
			return "positive"
		}
	}
	for _, w := range []string{"bad", "wrong", "terrible", "useless", "hate", "awful"} {
		if strings.Contains(lower, w) {
			return "negative"
		}
	}
	return "neutral"
}

func formatAnalysis(result *prediction.Analysis) string {
	pred := result.Prediction
	features := result.Features

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s looks %s!\n", pred.Emoji, result.Ticker, pred.Direction)
	fmt.Fprintf(&b, "Confidence: %.1f%% | Score: %.4f\n", pred.Confidence*100, pred.Score)
	fmt.Fprintf(&b, "Meme intensity: %.4f | Social: %.4f | Financial: %.4f\n",
		features.MemeIntensity, features.SocialSentiment, features.FinancialSentiment)
	if features.Price > 0 {
		fmt.Fprintf(&b, "Price: $%.2f | Volume: %s\n", features.Price, humanize.Comma(features.Volume))
	}
	fmt.Fprintf(&b, "\n%s", result.Message)
	return b.String()
}
