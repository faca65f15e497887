package telegram

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hypewatch/internal/services/conversation"
	"hypewatch/pkg/logger"
)

const handleTimeout = 60 * time.Second

const welcomeText = `Welcome to HypeWatch! 🚀

Send me a stock ticker (GME, TSLA, AMC...) and I'll scan the meme-o-sphere
and give you a playful directional read. Not financial advice, ever.

Commands:
/help - what I can do
/health - component status`

const helpText = `Here's what I understand:

- A ticker like GME or $TSLA - I'll run the full hype analysis
- "explain" or "how does this work" - methodology walkthrough
- "feedback: your note" - tell me how I did

Everything is for entertainment. Apes together strong, wallets apart.`

// Replier is the outbound surface the handler needs from the bot
type Replier interface {
	SendMessageWithContext(ctx context.Context, chatID int64, text string) error
	SendTyping(chatID int64) error
}

// HealthFunc reports per-component status for /health
type HealthFunc func(ctx context.Context) map[string]string

// Handler routes Telegram updates to the conversation service
type Handler struct {
	bot    Replier
	conv   *conversation.Service
	health HealthFunc
	log    *logger.Logger
}

// NewHandler creates a Telegram update handler. health may be nil.
func NewHandler(bot Replier, conv *conversation.Service, health HealthFunc) *Handler {
	return &Handler{
		bot:    bot,
		conv:   conv,
		health: health,
		log:    logger.Get().With("component", "telegram_handler"),
	}
}

// HandleUpdate processes a single Telegram update
func (h *Handler) HandleUpdate(update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		h.handleCommand(ctx, chatID, update.Message.Command())
		return
	}

	if err := h.bot.SendTyping(chatID); err != nil {
		h.log.Debugf("failed to send typing action: %v", err)
	}

	reply, err := h.conv.HandleMessage(ctx, strconv.FormatInt(chatID, 10), update.Message.Text)
	if err != nil {
		h.log.Errorf("failed to handle message from chat %d: %v", chatID, err)
		reply = "Something broke on my end. Even the memes need maintenance sometimes, try again in a bit."
	}

	h.reply(ctx, chatID, reply)
}

func (h *Handler) handleCommand(ctx context.Context, chatID int64, command string) {
	switch command {
	case "start":
		h.reply(ctx, chatID, welcomeText)
	case "help":
		h.reply(ctx, chatID, helpText)
	case "health":
		h.reply(ctx, chatID, h.healthReport(ctx))
	default:
		h.reply(ctx, chatID, "Unknown command. Try /help.")
	}
}

func (h *Handler) healthReport(ctx context.Context) string {
	if h.health == nil {
		return "All core components running."
	}

	statuses := h.health(ctx)
	if len(statuses) == 0 {
		return "All core components running."
	}

	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Component status:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %s\n", name, statuses[name])
	}
	return b.String()
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	if err := h.bot.SendMessageWithContext(ctx, chatID, text); err != nil {
		h.log.Errorf("failed to reply to chat %d: %v", chatID, err)
	}
}
