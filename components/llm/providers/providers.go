package providers

import (
	"context"
	"fmt"

	"github.com/bububa/lifelog-agent/components/llm"
	"github.com/bububa/lifelog-agent/components/llm/providers/anthropic"
	"github.com/bububa/lifelog-agent/components/llm/providers/cohere"
	"github.com/bububa/lifelog-agent/components/llm/providers/gemini"
	"github.com/bububa/lifelog-agent/components/llm/providers/openai"
)

var (
	FromOpenAI    = openai.New
	FromAnthropic = anthropic.New
	FromCohere    = cohere.New
	FromGemini    = gemini.New
)

// Config describes how to reach a language model provider
type Config struct {
	Provider    llm.Provider
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// New returns the LLM for cfg.Provider, openai when empty
func New(ctx context.Context, cfg Config) (llm.LLM, error) {
	opts := []llm.Option{
		llm.WithModel(cfg.Model),
		llm.WithTemperature(cfg.Temperature),
		llm.WithMaxTokens(cfg.MaxTokens),
	}
	switch cfg.Provider {
	case llm.ProviderOpenAI, "":
		return FromOpenAI(openai.NewClient(cfg.APIKey, cfg.BaseURL), opts...), nil
	case llm.ProviderAnthropic:
		return FromAnthropic(anthropic.NewClient(cfg.APIKey, cfg.BaseURL), opts...), nil
	case llm.ProviderCohere:
		return FromCohere(cohere.NewClient(cfg.APIKey, cfg.BaseURL), opts...), nil
	case llm.ProviderGemini:
		clt, err := gemini.NewClient(ctx, cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return FromGemini(clt, opts...), nil
	}
	return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
}
