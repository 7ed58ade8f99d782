package anthropic

import (
	"context"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/bububa/lifelog-agent/components"
	"github.com/bububa/lifelog-agent/components/llm"
)

type LLM struct {
	*anthropic.Client
	llm.Options
}

var _ llm.LLM = (*LLM)(nil)

func New(client *anthropic.Client, opts ...llm.Option) *LLM {
	ret := &LLM{
		Client: client,
	}
	for _, opt := range append([]llm.Option{llm.WithProvider(llm.ProviderAnthropic)}, opts...) {
		opt(&ret.Options)
	}
	return ret
}

// NewClient returns an anthropic client, baseURL is optional
func NewClient(apiKey string, baseURL string) *anthropic.Client {
	opts := make([]anthropic.ClientOption, 0, 1)
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return anthropic.NewClient(apiKey, opts...)
}

func (p *LLM) Chat(ctx context.Context, messages []components.Message, resp *components.LLMResponse) (string, error) {
	system, rest := llm.SplitSystem(messages)
	temperature := p.Temperature()
	req := anthropic.MessagesRequest{
		Model:       anthropic.Model(p.Model()),
		System:      system,
		Temperature: &temperature,
		MaxTokens:   p.MaxTokens(),
		Messages:    make([]anthropic.Message, 0, len(rest)),
	}
	for _, msg := range rest {
		var v anthropic.Message
		msg.ToAnthropic(&v)
		req.Messages = append(req.Messages, v)
	}
	res, err := p.CreateMessages(ctx, req)
	if err != nil {
		return "", err
	}
	if resp != nil {
		resp.FromAnthropic(&res)
	}
	content := res.GetFirstContentText()
	if strings.TrimSpace(content) == "" {
		return "", llm.ErrEmptyResponse
	}
	return content, nil
}
