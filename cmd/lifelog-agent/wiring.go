package main

import (
	"context"

	"github.com/bububa/lifelog-agent/agents"
	"github.com/bububa/lifelog-agent/chat"
	"github.com/bububa/lifelog-agent/components/datastore"
	embedderproviders "github.com/bububa/lifelog-agent/components/embedder/providers"
	"github.com/bububa/lifelog-agent/components/llm"
	llmproviders "github.com/bububa/lifelog-agent/components/llm/providers"
	"github.com/bububa/lifelog-agent/components/semantic"
	"github.com/bububa/lifelog-agent/components/vectordb"
	"github.com/bububa/lifelog-agent/components/vectordb/engines"
	"github.com/bububa/lifelog-agent/config"
	"github.com/bububa/lifelog-agent/session"
	"github.com/bububa/lifelog-agent/tools"
	"github.com/bububa/lifelog-agent/tools/duckduckgo"
	"github.com/bububa/lifelog-agent/tools/records"
	"github.com/bububa/lifelog-agent/tools/searxng"
	"github.com/bububa/lifelog-agent/tools/semanticsearch"
	"github.com/bububa/lifelog-agent/tools/sqlquery"
)

func openSemantic(ctx context.Context) (*semantic.Service, error) {
	e, err := embedderproviders.New(ctx, cfg.EmbedderProvider())
	if err != nil {
		return nil, err
	}
	engine, err := engines.OpenChromem(cfg.Chroma.PersistDirectory, cfg.Chroma.Compress, vectordb.WithTopK(cfg.Chroma.TopK))
	if err != nil {
		return nil, err
	}
	return semantic.New(ctx, e, engine,
		semantic.WithCollection(cfg.Chroma.Collection),
		semantic.WithLogger(log.With().Str("component", "semantic").Logger()),
	)
}

// openStore returns nil when no database is configured, the record tools then report it
func openStore(ctx context.Context) (datastore.Store, func(), error) {
	if cfg.Database.URL == "" {
		log.Warn().Msg("DATABASE_URL is not set, record tools are disabled")
		return nil, func() {}, nil
	}
	store, err := datastore.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func webSearchTool() tools.Tool {
	if cfg.WebSearch.Provider == config.WebSearchSearxng {
		return searxng.New(
			searxng.WithBaseURL(cfg.WebSearch.BaseURL),
			searxng.WithMaxResults(cfg.WebSearch.MaxResults),
		)
	}
	opts := []duckduckgo.Option{duckduckgo.WithMaxResults(cfg.WebSearch.MaxResults)}
	if cfg.WebSearch.BaseURL != "" {
		opts = append(opts, duckduckgo.WithBaseURL(cfg.WebSearch.BaseURL))
	}
	return duckduckgo.New(opts...)
}

func newRegistry(store datastore.Store, searcher semanticsearch.Searcher) (*tools.Registry, error) {
	list := make([]tools.Tool, 0, 7)
	for _, category := range records.Categories() {
		list = append(list, records.New(store, category, records.WithUserID(cfg.User.ID)))
	}
	list = append(list,
		sqlquery.New(store, sqlquery.WithUserID(cfg.User.ID)),
		semanticsearch.New(searcher, semanticsearch.WithTopK(cfg.Chroma.TopK)),
		webSearchTool(),
	)
	return tools.NewRegistry(tools.QueryDailyLogs, list...)
}

// pipeline holds the services every agent shares
type pipeline struct {
	llm      llm.LLM
	semantic *semantic.Service
	registry *tools.Registry
	release  func()
}

// openPipeline wires every service the agents need, release frees them
func openPipeline(ctx context.Context) (*pipeline, error) {
	l, err := llmproviders.New(ctx, cfg.LLMProvider())
	if err != nil {
		return nil, err
	}
	sem, err := openSemantic(ctx)
	if err != nil {
		return nil, err
	}
	store, closeStore, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	registry, err := newRegistry(store, sem)
	if err != nil {
		closeStore()
		return nil, err
	}
	if cfg.User.ID == "" {
		log.Warn().Msg("USER_UUID is not set, record tools are disabled")
	}
	return &pipeline{
		llm:      l,
		semantic: sem,
		registry: registry,
		release:  closeStore,
	}, nil
}

// newAgent builds an agent named name, the profile file is read once per agent
func (p *pipeline) newAgent(name string) *agents.Agent {
	return agents.NewAgent(p.llm, p.registry,
		agents.WithName(name),
		agents.WithUserID(cfg.User.ID),
		agents.WithProfileFile(cfg.User.ProfilePath),
		agents.WithMaxWords(cfg.Chat.MaxWords),
		agents.WithLogger(log.With().Str("component", "agent").Str("agent", name).Logger()),
	)
}

// newChatHandler gives every conversation its own agent and history
func (p *pipeline) newChatHandler() (*chat.Handler, *session.Store) {
	sessions := session.NewStore(
		func(_ context.Context, id string) (session.Agent, error) {
			return p.newAgent("conversation-" + id), nil
		},
		session.WithMaxTurns(cfg.Chat.MaxHistory),
		session.WithLogger(log.With().Str("component", "session").Logger()),
	)
	handler := chat.NewHandler(sessions,
		chat.WithMaxHistory(cfg.Chat.MaxHistory),
		chat.WithMaxWords(cfg.Chat.MaxWords),
		chat.WithLogger(log.With().Str("component", "chat").Logger()),
	)
	return handler, sessions
}
