package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/bububa/lifelog-agent/components"
	"github.com/bububa/lifelog-agent/components/llm"
)

type LLM struct {
	*genai.Client
	llm.Options
}

var _ llm.LLM = (*LLM)(nil)

func New(client *genai.Client, opts ...llm.Option) *LLM {
	ret := &LLM{
		Client: client,
	}
	for _, opt := range append([]llm.Option{llm.WithProvider(llm.ProviderGemini)}, opts...) {
		opt(&ret.Options)
	}
	return ret
}

// NewClient returns a gemini client
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, option.WithAPIKey(apiKey))
}

func (p *LLM) Chat(ctx context.Context, messages []components.Message, resp *components.LLMResponse) (string, error) {
	system, rest := llm.SplitSystem(messages)
	if len(rest) == 0 {
		return "", llm.ErrEmptyResponse
	}
	model := p.GenerativeModel(p.Model())
	model.SetTemperature(p.Temperature())
	model.SetMaxOutputTokens(int32(p.MaxTokens()))
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	cs := model.StartChat()
	lastIdx := len(rest) - 1
	for _, msg := range rest[:lastIdx] {
		content := new(genai.Content)
		msg.ToGemini(content)
		cs.History = append(cs.History, content)
	}
	res, err := cs.SendMessage(ctx, genai.Text(rest[lastIdx].Text()))
	if err != nil {
		return "", err
	}
	if resp != nil {
		resp.FromGemini(p.Model(), res)
	}
	var sb strings.Builder
	for _, cand := range res.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		break
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", llm.ErrEmptyResponse
	}
	return sb.String(), nil
}
