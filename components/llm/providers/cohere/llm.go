package cohere

import (
	"context"
	"strings"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereClient "github.com/cohere-ai/cohere-go/v2/client"
	cohereOption "github.com/cohere-ai/cohere-go/v2/option"

	"github.com/bububa/lifelog-agent/components"
	"github.com/bububa/lifelog-agent/components/llm"
)

type LLM struct {
	*cohereClient.Client
	llm.Options
}

var _ llm.LLM = (*LLM)(nil)

func New(client *cohereClient.Client, opts ...llm.Option) *LLM {
	ret := &LLM{
		Client: client,
	}
	for _, opt := range append([]llm.Option{llm.WithProvider(llm.ProviderCohere)}, opts...) {
		opt(&ret.Options)
	}
	return ret
}

// NewClient returns a cohere client, baseURL is optional
func NewClient(apiKey string, baseURL string) *cohereClient.Client {
	opts := make([]cohereOption.RequestOption, 0, 2)
	opts = append(opts, cohereOption.WithToken(apiKey))
	if baseURL != "" {
		opts = append(opts, cohereOption.WithBaseURL(baseURL))
	}
	return cohereClient.NewClient(opts...)
}

// Chat sends the last message as the cohere message and the rest as chat history
func (p *LLM) Chat(ctx context.Context, messages []components.Message, resp *components.LLMResponse) (string, error) {
	if len(messages) == 0 {
		return "", llm.ErrEmptyResponse
	}
	system, rest := llm.SplitSystem(messages)
	lastIdx := len(rest) - 1
	model := p.Model()
	temperature := float64(p.Temperature())
	maxTokens := p.MaxTokens()
	req := cohere.ChatRequest{
		Model:       &model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}
	if system != "" {
		req.Preamble = &system
	}
	if lastIdx >= 0 {
		req.Message = rest[lastIdx].Text()
	}
	for idx := 0; idx < lastIdx; idx++ {
		v := new(cohere.Message)
		rest[idx].ToCohere(v)
		req.ChatHistory = append(req.ChatHistory, v)
	}
	res, err := p.Client.Chat(ctx, &req)
	if err != nil {
		return "", err
	}
	if resp != nil {
		resp.FromCohere(res)
	}
	if strings.TrimSpace(res.Text) == "" {
		return "", llm.ErrEmptyResponse
	}
	return res.Text, nil
}
