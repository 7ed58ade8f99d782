// Package semantic stores personal log entries as embeddings and answers nearest-neighbour lookups over them.
package semantic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bububa/lifelog-agent/components"
	"github.com/bububa/lifelog-agent/components/embedder"
	"github.com/bububa/lifelog-agent/components/vectordb"
)

// DefaultCollection is the collection personal logs are stored in
const DefaultCollection = "my_life_logs"

var (
	ErrEmptyQuery = errors.New("empty query")
	// ErrDimensionMismatch is returned when a supplied vector does not have the embedder's dimension
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Metadata keys
const (
	MetaUserID = "user_id"
	MetaLogID  = "log_id"
	MetaDate   = "date"
)

// Entry is one personal log to be stored
type Entry struct {
	ID        string
	Text      string
	UserID    string
	Date      string
	Embedding []float64
}

// Match is one nearest-neighbour result
type Match struct {
	ID       string
	Document string
	Metadata map[string]string
	Distance float64
}

// Date returns the date recorded with the match, if any
func (m Match) Date() string {
	return m.Metadata[MetaDate]
}

type Options struct {
	collection string
	logger     zerolog.Logger
}

type Option func(*Options)

func WithCollection(name string) Option {
	return func(o *Options) {
		o.collection = name
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.logger = l
	}
}

// Service is the semantic search service
type Service struct {
	embedder embedder.Embedder
	engine   vectordb.Engine
	Options
}

// New returns a Service whose collection already exists
func New(ctx context.Context, e embedder.Embedder, engine vectordb.Engine, opts ...Option) (*Service, error) {
	ret := &Service{
		embedder: e,
		engine:   engine,
		Options: Options{
			collection: DefaultCollection,
			logger:     zerolog.Nop(),
		},
	}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if err := engine.EnsureCollection(ctx, ret.collection); err != nil {
		return nil, fmt.Errorf("ensure collection %s: %w", ret.collection, err)
	}
	return ret, nil
}

func (s *Service) Collection() string {
	return s.collection
}

// Search returns up to n entries closest to text, closest first
func (s *Service) Search(ctx context.Context, text string, n int) ([]Match, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuery
	}
	embedding := new(embedder.Embedding)
	usage := new(components.LLMUsage)
	if err := s.embedder.Embed(ctx, text, embedding, usage); err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	records, err := s.engine.Search(ctx, embedding.Embedding,
		vectordb.SearchWithCollection(s.collection),
		vectordb.SearchWithTopK(n))
	if err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(records))
	for _, record := range records {
		matches = append(matches, Match{
			ID:       record.ID,
			Document: record.Embedding.Object,
			Metadata: record.Embedding.Meta,
			Distance: record.Distance,
		})
	}
	return matches, nil
}

// Add stores entry and returns the log id. The text is always embedded, a supplied
// vector is kept only when it has the same dimension as the embedder's output.
func (s *Service) Add(ctx context.Context, entry Entry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	computed := new(embedder.Embedding)
	usage := new(components.LLMUsage)
	if err := s.embedder.Embed(ctx, entry.Text, computed, usage); err != nil {
		return "", fmt.Errorf("embed entry: %w", err)
	}
	vector := computed.Embedding
	if len(entry.Embedding) > 0 {
		if len(entry.Embedding) != len(vector) {
			return "", fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(entry.Embedding), len(vector))
		}
		vector = entry.Embedding
	}
	embedding := embedder.Embedding{
		Object:    entry.Text,
		Embedding: vector,
		Meta: map[string]string{
			MetaUserID: entry.UserID,
			MetaLogID:  entry.ID,
		},
	}
	if entry.Date != "" {
		embedding.Meta[MetaDate] = entry.Date
	}
	if err := s.engine.Insert(ctx, s.collection, vectordb.Record{ID: entry.ID, Embedding: embedding}); err != nil {
		return "", err
	}
	s.logger.Info().Str("log_id", entry.ID).Str("date", entry.Date).Msg("stored embedding")
	return entry.ID, nil
}

// Clear removes every entry, the collection is re-created empty
func (s *Service) Clear(ctx context.Context) error {
	if err := s.engine.DropCollection(ctx, s.collection); err != nil {
		return err
	}
	s.logger.Info().Str("collection", s.collection).Msg("cleared collection")
	return s.engine.EnsureCollection(ctx, s.collection)
}

// ClearByDate removes the entries recorded for date and returns how many were removed
func (s *Service) ClearByDate(ctx context.Context, date string) (int, error) {
	n, err := s.engine.Delete(ctx, s.collection, map[string]string{MetaDate: date})
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("date", date).Int("deleted", n).Msg("cleared entries by date")
	return n, nil
}
