package telegram

import (
	"context"
	"math/rand"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypewatch/internal/analysis"
	"hypewatch/internal/domain/market"
	"hypewatch/internal/domain/social"
	"hypewatch/internal/repository/memory"
	"hypewatch/internal/services/conversation"
	feedbacksvc "hypewatch/internal/services/feedback"
	"hypewatch/internal/services/prediction"
)

type mockReplier struct {
	sent   []string
	typing int
}

func (m *mockReplier) SendMessageWithContext(_ context.Context, _ int64, text string) error {
	m.sent = append(m.sent, text)
	return nil
}

func (m *mockReplier) SendTyping(int64) error {
	m.typing++
	return nil
}

type staticSource struct{ posts []social.Post }

func (s *staticSource) FetchMentions(context.Context, string) ([]social.Post, error) {
	return s.posts, nil
}

type staticMarket struct{}

func (staticMarket) Quote(_ context.Context, symbol string) (market.Quote, error) {
	return market.Quote{Symbol: symbol, Price: 42, Volume: 1000}, nil
}

func newTestHandler(health HealthFunc) (*Handler, *mockReplier) {
	predictions := prediction.NewService(
		&staticSource{posts: []social.Post{{Title: "GME stonks"}}},
		&staticSource{},
		staticMarket{},
		analysis.NewAggregator(nil),
		nil,
		prediction.NewMessenger(rand.New(rand.NewSource(1))),
	)
	conv := conversation.NewService(predictions, feedbacksvc.NewService(memory.NewFeedbackRepository()))

	replier := &mockReplier{}
	return NewHandler(replier, conv, health), replier
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: 7},
			From: &tgbotapi.User{ID: 7},
		},
	}
}

func commandUpdate(command string) tgbotapi.Update {
	update := textUpdate("/" + command)
	update.Message.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(command) + 1},
	}
	return update
}

func TestHandleUpdate_StartCommand(t *testing.T) {
	handler, replier := newTestHandler(nil)

	handler.HandleUpdate(commandUpdate("start"))

	require.Len(t, replier.sent, 1)
	assert.Contains(t, replier.sent[0], "HypeWatch")
}

func TestHandleUpdate_HelpCommand(t *testing.T) {
	handler, replier := newTestHandler(nil)

	handler.HandleUpdate(commandUpdate("help"))

	require.Len(t, replier.sent, 1)
	assert.Contains(t, replier.sent[0], "feedback:")
}

func TestHandleUpdate_HealthCommand(t *testing.T) {
	handler, replier := newTestHandler(func(context.Context) map[string]string {
		return map[string]string{"redis": "ok", "postgres": "down"}
	})

	handler.HandleUpdate(commandUpdate("health"))

	require.Len(t, replier.sent, 1)
	assert.Contains(t, replier.sent[0], "postgres: down")
	assert.Contains(t, replier.sent[0], "redis: ok")
}

func TestHandleUpdate_UnknownCommand(t *testing.T) {
	handler, replier := newTestHandler(nil)

	handler.HandleUpdate(commandUpdate("frobnicate"))

	require.Len(t, replier.sent, 1)
	assert.Contains(t, replier.sent[0], "Unknown command")
}

func TestHandleUpdate_FreeTextAnalysis(t *testing.T) {
	handler, replier := newTestHandler(nil)

	handler.HandleUpdate(textUpdate("GME to the moon"))

	require.Len(t, replier.sent, 1)
	assert.Equal(t, 1, replier.typing)
	assert.Contains(t, replier.sent[0], "GME")
}

func TestHandleUpdate_IgnoresNonMessage(t *testing.T) {
	handler, replier := newTestHandler(nil)

	handler.HandleUpdate(tgbotapi.Update{})

	assert.Empty(t, replier.sent)
}
