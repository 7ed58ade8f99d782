// Package llm defines the language model service used by the agents.
package llm

import (
	"context"
	"errors"

	"github.com/bububa/lifelog-agent/components"
)

type Provider = string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderCohere    Provider = "cohere"
	ProviderGemini    Provider = "gemini"
)

// ErrEmptyResponse is returned when the model answered without any text
var ErrEmptyResponse = errors.New("llm: empty response")

// LLM turns a conversation into the next assistant message
type LLM interface {
	Provider() Provider
	Model() string
	Chat(ctx context.Context, messages []components.Message, resp *components.LLMResponse) (string, error)
}

// Prompt sends a single user message and returns the reply text
func Prompt(ctx context.Context, l LLM, prompt string, resp *components.LLMResponse) (string, error) {
	msg := components.NewTextMessage(components.UserRole, prompt)
	return l.Chat(ctx, []components.Message{*msg}, resp)
}

// Options holds settings shared by every provider
type Options struct {
	provider    Provider
	model       string
	temperature float32
	maxTokens   int
}

type Option func(*Options)

func WithProvider(provider Provider) Option {
	return func(o *Options) {
		o.provider = provider
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.model = model
	}
}

func WithTemperature(temperature float32) Option {
	return func(o *Options) {
		o.temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.maxTokens = maxTokens
	}
}

func (o Options) Provider() Provider {
	return o.provider
}

func (o Options) Model() string {
	return o.model
}

func (o Options) Temperature() float32 {
	return o.temperature
}

// MaxTokens returns the completion budget, fallback to 1024 when unset
func (o Options) MaxTokens() int {
	if o.maxTokens <= 0 {
		return 1024
	}
	return o.maxTokens
}

// SplitSystem separates system messages from the conversation, joining their text
func SplitSystem(messages []components.Message) (string, []components.Message) {
	var (
		system string
		rest   = make([]components.Message, 0, len(messages))
	)
	for _, msg := range messages {
		if msg.Role() == components.SystemRole {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Text()
			continue
		}
		rest = append(rest, msg)
	}
	return system, rest
}
