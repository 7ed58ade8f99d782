// Package telegram serves the chat handler over the Telegram bot API with long polling.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const (
	// UpdateTimeout is the long polling timeout in seconds
	UpdateTimeout = 60
	greeting      = "Hi %s! I'm your personal AI agent. Ask me anything about your life data or the world!"
)

// API is the part of the bot client the transport uses
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

var _ API = (*tgbotapi.BotAPI)(nil)

// Handler answers one message of a conversation
type Handler interface {
	Handle(ctx context.Context, conversationID string, text string) string
}

type Bot struct {
	api     API
	handler Handler
	logger  zerolog.Logger
}

// NewBotAPI connects to telegram with token
func NewBotAPI(token string, debug bool) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	api.Debug = debug
	return api, nil
}

func New(api API, handler Handler, logger zerolog.Logger) *Bot {
	return &Bot{
		api:     api,
		handler: handler,
		logger:  logger,
	}
}

// Run polls updates until ctx is done. Each update is handled on its own goroutine,
// messages of one chat are serialized by the session store behind the handler.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = UpdateTimeout
	updates := b.api.GetUpdatesChan(u)
	b.logger.Info().Msg("telegram bot polling")

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func(update tgbotapi.Update) {
				defer wg.Done()
				b.HandleUpdate(ctx, update)
			}(update)
		}
	}
}

// HandleUpdate replies to a single update
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	if msg.IsCommand() {
		if msg.Command() == "start" {
			var name string
			if msg.From != nil {
				name = msg.From.FirstName
			}
			b.send(chatID, fmt.Sprintf(greeting, name))
		}
		return
	}
	if msg.Text == "" {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Warn().Err(err).Int64("chat", chatID).Msg("send typing action failed")
	}
	reply := b.handler.Handle(ctx, strconv.FormatInt(chatID, 10), msg.Text)
	b.send(chatID, reply)
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error().Err(err).Int64("chat", chatID).Msg("send reply failed")
	}
}
