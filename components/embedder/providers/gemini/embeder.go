package gemini

import (
	"context"
	"errors"

	"github.com/google/generative-ai-go/genai"

	"github.com/bububa/lifelog-agent/components"
	"github.com/bububa/lifelog-agent/components/embedder"
)

// DefaultModel is used when no model is configured
const DefaultModel = "text-embedding-004"

type Embedder struct {
	*genai.Client

	embedder.Options
}

var _ embedder.Embedder = (*Embedder)(nil)

func (p *Embedder) SetClient(clt *genai.Client) {
	p.Client = clt
}

func New(client *genai.Client, opts ...embedder.Option) *Embedder {
	i := &Embedder{
		Client: client,
	}
	for _, opt := range append([]embedder.Option{embedder.WithProvider(embedder.ProviderGemini)}, opts...) {
		opt(&i.Options)
	}
	return i
}

func (p *Embedder) model() *genai.EmbeddingModel {
	name := p.Model()
	if name == "" {
		name = DefaultModel
	}
	return p.EmbeddingModel(name)
}

// Embed fills embedding with the vector of text, gemini reports no token usage for embeddings
func (p *Embedder) Embed(ctx context.Context, text string, embedding *embedder.Embedding, _ *components.LLMUsage) error {
	resp, err := p.model().EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return err
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return errors.New("gemini: no embedding returned")
	}
	embedding.Object = text
	embedding.Embedding = float64s(resp.Embedding.Values)
	embedding.Index = 0
	return nil
}

func (p *Embedder) BatchEmbed(ctx context.Context, parts []string, _ *components.LLMUsage) ([]embedder.Embedding, error) {
	model := p.model()
	batch := model.NewBatch()
	for _, part := range parts {
		batch.AddContent(genai.Text(part))
	}
	resp, err := model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}
	ret := make([]embedder.Embedding, 0, len(resp.Embeddings))
	for idx, v := range resp.Embeddings {
		if idx >= len(parts) || v == nil {
			break
		}
		ret = append(ret, embedder.Embedding{
			Object:    parts[idx],
			Embedding: float64s(v.Values),
			Index:     idx,
		})
	}
	return ret, nil
}

func float64s(values []float32) []float64 {
	ret := make([]float64, 0, len(values))
	for _, v := range values {
		ret = append(ret, float64(v))
	}
	return ret
}
