package telegram

import (
	"context"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"hypewatch/pkg/errors"
	"hypewatch/pkg/logger"
)

// Bot represents a Telegram bot instance
type Bot struct {
	api         *tgbotapi.BotAPI
	updates     tgbotapi.UpdatesChannel
	log         *logger.Logger
	mu          sync.RWMutex
	running     bool
	msgHandler  func(tgbotapi.Update)
	rateLimiter *rate.Limiter
}

// Config contains Telegram bot configuration
type Config struct {
	Token          string
	Debug          bool
	Timeout        int // Update timeout in seconds
	HTTPTimeout    time.Duration
	RateLimitBurst int
	RateLimitRate  int // Messages per second
}

// NewBot creates a new Telegram bot instance
func NewBot(cfg Config, log *logger.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "telegram bot token is required")
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 60
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 30 // Telegram allows bursts
	}
	if cfg.RateLimitRate == 0 {
		cfg.RateLimitRate = 20 // Conservative: Telegram limit is 30 msg/sec
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create telegram bot")
	}

	api.Debug = cfg.Debug

	log.Infof("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:         api,
		log:         log.With("component", "telegram_bot"),
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRate), cfg.RateLimitBurst),
	}, nil
}

// Start begins polling for updates and blocks until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return errors.New("bot is already running")
	}
	b.running = true
	b.mu.Unlock()

	b.log.Infow("Starting Telegram bot in polling mode...")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.updates = updates

	b.log.Infow("✓ Telegram bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			b.log.Infow("Telegram bot stopping (context cancelled)")
			b.Stop()
			return nil

		case update := <-updates:
			// Handle update in goroutine to avoid blocking
			go b.handleUpdate(update)
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return
	}

	b.api.StopReceivingUpdates()
	b.running = false
	b.log.Infow("✓ Telegram bot stopped")
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	b.mu.RLock()
	handler := b.msgHandler
	b.mu.RUnlock()

	if handler != nil {
		handler(update)
		return
	}

	if update.Message != nil {
		b.log.Debugw("Received message (no handler registered)",
			"update_id", update.UpdateID,
			"from_id", update.Message.From.ID,
		)
	}
}

// SetMessageHandler registers a handler for incoming updates
func (b *Bot) SetMessageHandler(handler func(tgbotapi.Update)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgHandler = handler
}

// SendMessage sends a text message to a chat
func (b *Bot) SendMessage(chatID int64, text string) error {
	return b.SendMessageWithContext(context.Background(), chatID, text)
}

// SendMessageWithContext sends a text message to a chat with context support
func (b *Bot) SendMessageWithContext(ctx context.Context, chatID int64, text string) error {
	if err := b.rateLimiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter wait failed")
	}

	msg := tgbotapi.NewMessage(chatID, text)

	if _, err := b.api.Send(msg); err != nil {
		b.log.Errorw("Failed to send message",
			"chat_id", chatID,
			"error", err,
		)
		return errors.Wrap(err, "failed to send message")
	}
	return nil
}

// SendTyping sends "typing..." action to chat
func (b *Bot) SendTyping(chatID int64) error {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	_, err := b.api.Send(action)
	return err
}

// IsRunning returns whether the bot is currently running
func (b *Bot) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.running
}
