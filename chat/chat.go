// Package chat turns an inbound message into a reply, independent of the transport it came from.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bububa/lifelog-agent/session"
)

const (
	DefaultMaxHistory = 10
	DefaultMaxWords   = 300
)

// TruncateWords keeps the first max words of s followed by "..." when s is longer
func TruncateWords(s string, max int) string {
	words := strings.Fields(s)
	if max <= 0 || len(words) <= max {
		return s
	}
	return strings.Join(words[:max], " ") + "..."
}

// ComposePrompt prefixes text with the rendered recent conversation
func ComposePrompt(history string, maxHistory int, text string) string {
	return fmt.Sprintf("Context from previous messages (last %d):\n%s\nUser: %s", maxHistory, history, text)
}

type Options struct {
	maxHistory int
	maxWords   int
	logger     zerolog.Logger
}

type Option func(*Options)

// WithMaxHistory sets how many recent messages are rendered as context
func WithMaxHistory(n int) Option {
	return func(o *Options) {
		o.maxHistory = n
	}
}

// WithMaxWords sets the length replies are truncated to
func WithMaxWords(n int) Option {
	return func(o *Options) {
		o.maxWords = n
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.logger = l
	}
}

// Handler answers messages using the session of their conversation
type Handler struct {
	Options
	sessions *session.Store
}

func NewHandler(sessions *session.Store, opts ...Option) *Handler {
	ret := &Handler{
		Options: Options{
			maxHistory: DefaultMaxHistory,
			maxWords:   DefaultMaxWords,
			logger:     zerolog.Nop(),
		},
		sessions: sessions,
	}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	return ret
}

// Handle returns the reply to text, failures are turned into a reply as well
func (h *Handler) Handle(ctx context.Context, conversationID string, text string) string {
	var reply string
	err := h.sessions.Do(ctx, conversationID, func(sess *session.Session) error {
		prompt := ComposePrompt(sess.Memory.Render(h.maxHistory), h.maxHistory, text)
		answer, err := sess.Agent.ProcessQuery(ctx, prompt)
		if err != nil {
			h.logger.Error().Err(err).Str("conversation", conversationID).Msg("process query failed")
			reply = fmt.Sprintf("Sorry, there was an error: %v", err)
		} else {
			reply = TruncateWords(answer, h.maxWords)
		}
		sess.Memory.AddExchange(text, reply)
		return nil
	})
	if err != nil {
		h.logger.Error().Err(err).Str("conversation", conversationID).Msg("open session failed")
		return fmt.Sprintf("Sorry, there was an error: %v", err)
	}
	return reply
}
