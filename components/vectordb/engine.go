package vectordb

import (
	"context"
)

type EngineType string

const (
	Memory  EngineType = "memory"
	Chromem EngineType = "chromem"
)

// Engine stores embeddings in named collections and answers nearest-neighbour queries
type Engine interface {
	// EnsureCollection creates the collection when it does not exist
	EnsureCollection(ctx context.Context, name string) error
	Insert(ctx context.Context, collection string, records ...Record) error
	Search(ctx context.Context, vectors []float64, opts ...SearchOption) ([]Record, error)
	Count(ctx context.Context, collection string) (int, error)
	DropCollection(ctx context.Context, name string) error
	// Delete removes the records whose metadata matches every key of meta and returns how many were removed
	Delete(ctx context.Context, collection string, meta map[string]string) (int, error)
}
