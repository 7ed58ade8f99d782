package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/lifelog-agent/agents"
	"github.com/bububa/lifelog-agent/api"
	"github.com/bububa/lifelog-agent/components"
	"github.com/bububa/lifelog-agent/components/embedder"
	"github.com/bububa/lifelog-agent/components/semantic"
	"github.com/bububa/lifelog-agent/components/vectordb/engines/memory"
	"github.com/bububa/lifelog-agent/config"
	"github.com/bububa/lifelog-agent/tools"
)

type unitEmbedder struct{}

func (unitEmbedder) Provider() embedder.Provider { return "test" }
func (unitEmbedder) Model() string               { return "unit" }

func (unitEmbedder) Embed(_ context.Context, text string, embedding *embedder.Embedding, _ *components.LLMUsage) error {
	*embedding = embedder.Embedding{Object: text, Embedding: []float64{1, 0}}
	return nil
}

func (e unitEmbedder) BatchEmbed(ctx context.Context, parts []string, usage *components.LLMUsage) ([]embedder.Embedding, error) {
	ret := make([]embedder.Embedding, len(parts))
	for i, part := range parts {
		if err := e.Embed(ctx, part, &ret[i], usage); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func testPipeline(t *testing.T) *pipeline {
	t.Helper()
	cfg = &config.Config{
		User:      config.UserConfig{ID: "u1"},
		Chroma:    config.ChromaConfig{TopK: 3},
		WebSearch: config.WebSearchConfig{Provider: config.WebSearchDuckDuckGo, MaxResults: 5},
		Chat:      config.ChatConfig{MaxHistory: 10, MaxWords: 300},
	}
	log = zerolog.Nop()
	sem, err := semantic.New(context.Background(), unitEmbedder{}, memory.New())
	require.NoError(t, err)
	registry, err := newRegistry(nil, sem)
	require.NoError(t, err)
	return &pipeline{semantic: sem, registry: registry, release: func() {}}
}

func TestSessionsOwnTheirAgent(t *testing.T) {
	ctx := context.Background()
	_, sessions := testPipeline(t).newChatHandler()
	s1, err := sessions.Get(ctx, "1")
	require.NoError(t, err)
	s2, err := sessions.Get(ctx, "2")
	require.NoError(t, err)
	again, err := sessions.Get(ctx, "1")
	require.NoError(t, err)

	a1, ok := s1.Agent.(*agents.Agent)
	require.True(t, ok)
	a2, ok := s2.Agent.(*agents.Agent)
	require.True(t, ok)
	assert.NotSame(t, a1, a2)
	assert.Same(t, a1, again.Agent)
	assert.Equal(t, "conversation-1", a1.Name())
	assert.Equal(t, "conversation-2", a2.Name())
}

func TestIngestedLogsReachSearchTool(t *testing.T) {
	p := testPipeline(t)
	srv := api.NewServer(p.semantic, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/add_embedding", bytes.NewBufferString(`{"text":"deadlifted 140kg","user_id":"u1","date":"2025-03-01"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	tool, ok := p.registry.Lookup(tools.ChromaSemanticSearch)
	require.True(t, ok)
	got, err := tool.Invoke(context.Background(), "deadlift")
	require.NoError(t, err)
	assert.Contains(t, got, "[2025-03-01] deadlifted 140kg")
}
