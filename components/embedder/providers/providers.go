package providers

import (
	"context"
	"fmt"

	"github.com/bububa/lifelog-agent/components/embedder"
	"github.com/bububa/lifelog-agent/components/embedder/providers/cohere"
	"github.com/bububa/lifelog-agent/components/embedder/providers/gemini"
	"github.com/bububa/lifelog-agent/components/embedder/providers/openai"
	cohereLLM "github.com/bububa/lifelog-agent/components/llm/providers/cohere"
	geminiLLM "github.com/bububa/lifelog-agent/components/llm/providers/gemini"
	openaiLLM "github.com/bububa/lifelog-agent/components/llm/providers/openai"
)

var (
	FromOpenAI = openai.New
	FromCohere = cohere.New
	FromGemini = gemini.New
)

// Config describes how to reach an embedding provider
type Config struct {
	Provider embedder.Provider
	APIKey   string
	BaseURL  string
	Model    string
}

// New returns the Embedder for cfg.Provider, openai when empty
func New(ctx context.Context, cfg Config) (embedder.Embedder, error) {
	switch cfg.Provider {
	case embedder.ProviderOpenAI, "":
		return FromOpenAI(openaiLLM.NewClient(cfg.APIKey, cfg.BaseURL), embedder.WithModel(cfg.Model)), nil
	case embedder.ProviderCohere:
		return FromCohere(cohereLLM.NewClient(cfg.APIKey, cfg.BaseURL), embedder.WithModel(cfg.Model)), nil
	case embedder.ProviderGemini:
		clt, err := geminiLLM.NewClient(ctx, cfg.APIKey)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return FromGemini(clt, embedder.WithModel(cfg.Model)), nil
	}
	return nil, fmt.Errorf("unsupported embedder provider: %s", cfg.Provider)
}
