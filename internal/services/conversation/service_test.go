package conversation

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypewatch/internal/analysis"
	"hypewatch/internal/domain/market"
	"hypewatch/internal/domain/social"
	"hypewatch/internal/repository/memory"
	feedbacksvc "hypewatch/internal/services/feedback"
	"hypewatch/internal/services/prediction"
)

type stubSource struct {
	posts []social.Post
}

func (s *stubSource) FetchMentions(context.Context, string) ([]social.Post, error) {
	return s.posts, nil
}

type stubMarket struct {
	quote market.Quote
}

func (s *stubMarket) Quote(_ context.Context, symbol string) (market.Quote, error) {
	q := s.quote
	q.Symbol = symbol
	return q, nil
}

func newTestConversation(t *testing.T) (*Service, *feedbacksvc.Service) {
	t.Helper()

	posts := []social.Post{{Source: "reddit", Title: "GME to the moon", SelfText: "diamond hands"}}
	predictions := prediction.NewService(
		&stubSource{posts: posts},
		&stubSource{},
		&stubMarket{quote: market.Quote{Price: 100, Volume: 2_000_000}},
		analysis.NewAggregator(nil),
		nil,
		prediction.NewMessenger(rand.New(rand.NewSource(1))),
	)
	fb := feedbacksvc.NewService(memory.NewFeedbackRepository())
	return NewService(predictions, fb), fb
}

func TestHandleMessage_TickerAnalysis(t *testing.T) {
	svc, _ := newTestConversation(t)

	reply, err := svc.HandleMessage(context.Background(), "conv-1", "GME to the moon?")
	require.NoError(t, err)

	assert.Contains(t, reply, "GME")
	assert.Contains(t, reply, "Confidence:")
	assert.Contains(t, reply, "Meme intensity:")
}

func TestHandleMessage_Feedback(t *testing.T) {
	svc, fb := newTestConversation(t)
	ctx := context.Background()

	reply, err := svc.HandleMessage(ctx, "conv-1", "feedback: loved the call")
	require.NoError(t, err)
	assert.Equal(t, feedbackReply, reply)

	items, err := fb.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "conv-1", items[0].ConversationID)
	assert.Equal(t, "positive", items[0].Rating)
	assert.Equal(t, "loved the call", items[0].Notes)
}

func TestHandleMessage_FeedbackEmptyBody(t *testing.T) {
	svc, fb := newTestConversation(t)

	reply, err := svc.HandleMessage(context.Background(), "conv-1", "feedback:   ")
	require.NoError(t, err)
	assert.Contains(t, reply, "feedback:")

	items, err := fb.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHandleMessage_MethodologyBeforeAndAfterAnalysis(t *testing.T) {
	svc, _ := newTestConversation(t)
	ctx := context.Background()

	reply, err := svc.HandleMessage(ctx, "conv-1", "explain your methodology")
	require.NoError(t, err)
	assert.Contains(t, reply, "weighted score")

	_, err = svc.HandleMessage(ctx, "conv-1", "GME please")
	require.NoError(t, err)

	reply, err = svc.HandleMessage(ctx, "conv-1", "how does this work?")
	require.NoError(t, err)
	assert.Contains(t, reply, "Meme Intensity")
}

func TestHandleMessage_NoTicker(t *testing.T) {
	svc, _ := newTestConversation(t)

	reply, err := svc.HandleMessage(context.Background(), "conv-1", "hi !!")
	require.NoError(t, err)
	assert.Equal(t, promptReply, reply)
}

func TestHandleMessage_HistoryTrimmed(t *testing.T) {
	svc, _ := newTestConversation(t)
	ctx := context.Background()

	for i := 0; i < 40; i++ {
		_, err := svc.HandleMessage(ctx, "conv-1", "hi")
		require.NoError(t, err)
	}

	history := svc.History("conv-1")
	assert.Len(t, history, maxHistoryEntries)
	assert.Equal(t, "bot", history[len(history)-1].Role)
}

func TestExtractTicker(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"GME to the moon", "GME", true},
		{"$TSLA!", "TSLA", true},
		{"check amc.", "CHECK", true}, // first qualifying word wins
		{"hi", "", false},
		{"ab 12 x", "", false},
		{"TOOLONGG", "", false},
	}

	for _, tt := range tests {
		got, ok := extractTicker(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
