package openai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bububa/lifelog-agent/components"
	"github.com/bububa/lifelog-agent/components/llm"
)

type LLM struct {
	*openai.Client
	llm.Options
}

var _ llm.LLM = (*LLM)(nil)

func New(client *openai.Client, opts ...llm.Option) *LLM {
	ret := &LLM{
		Client: client,
	}
	for _, opt := range append([]llm.Option{llm.WithProvider(llm.ProviderOpenAI)}, opts...) {
		opt(&ret.Options)
	}
	return ret
}

// NewClient returns an openai client, baseURL is optional
func NewClient(apiKey string, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (p *LLM) Chat(ctx context.Context, messages []components.Message, resp *components.LLMResponse) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.Model(),
		Temperature: p.Temperature(),
		MaxTokens:   p.MaxTokens(),
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		var v openai.ChatCompletionMessage
		msg.ToOpenAI(&v)
		req.Messages = append(req.Messages, v)
	}
	res, err := p.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if resp != nil {
		resp.FromOpenAI(&res)
	}
	if len(res.Choices) == 0 {
		return "", llm.ErrEmptyResponse
	}
	content := res.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", llm.ErrEmptyResponse
	}
	return content, nil
}
