package memory

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bububa/lifelog-agent/components/vectordb"
)

// Engine implements the vectordb Engine interface using in-memory storage.
// It provides thread-safe operations for managing collections and performing
// vector similarity searches without the need for external database systems.
type Engine struct {
	// collections stores all vector collections in memory
	collections *sync.Map
	vectordb.Options
}

var _ vectordb.Engine = (*Engine)(nil)

// Collection is a named set of records
type Collection struct {
	// records holds the actual records in the collection
	records []vectordb.Record
	// mu provides thread-safety for concurrent operations
	mu sync.RWMutex
}

// AddRecords adds records, replacing any record with the same ID
func (c *Collection) AddRecords(records ...vectordb.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, record := range records {
		replaced := false
		for idx := range c.records {
			if c.records[idx].ID == record.ID {
				c.records[idx] = record
				replaced = true
				break
			}
		}
		if !replaced {
			c.records = append(c.records, record)
		}
	}
}

// Records returns a copy of the records
func (c *Collection) Records() []vectordb.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ret := make([]vectordb.Record, len(c.records))
	copy(ret, c.records)
	return ret
}

// RemoveWhere removes records whose metadata matches meta
func (c *Collection) RemoveWhere(meta map[string]string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.records[:0]
	removed := 0
	for _, record := range c.records {
		if vectordb.MatchMeta(record.Embedding.Meta, meta) {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	c.records = kept
	return removed
}

// New creates a new in-memory vector database instance.
func New(opts ...vectordb.Option) *Engine {
	ret := &Engine{
		collections: new(sync.Map),
	}
	for _, opt := range append([]vectordb.Option{vectordb.WithEngine(vectordb.Memory)}, opts...) {
		opt(&ret.Options)
	}
	return ret
}

// HasCollection checks if a collection with the given name exists in the database.
func (e *Engine) HasCollection(name string) bool {
	_, exists := e.collections.Load(name)
	return exists
}

// DropCollection removes a collection and all its data from the database.
func (e *Engine) DropCollection(_ context.Context, name string) error {
	e.collections.Delete(name)
	return nil
}

// Collection returns the named collection, creating it when missing
func (e *Engine) Collection(_ context.Context, name string) (*Collection, error) {
	col, _ := e.collections.LoadOrStore(name, new(Collection))
	return col.(*Collection), nil
}

func (e *Engine) EnsureCollection(ctx context.Context, name string) error {
	_, err := e.Collection(ctx, name)
	return err
}

func (e *Engine) Insert(ctx context.Context, collectionName string, records ...vectordb.Record) error {
	col, err := e.Collection(ctx, collectionName)
	if err != nil {
		return err
	}
	docs := make([]vectordb.Record, 0, len(records))
	for _, record := range records {
		if record.ID == "" {
			record.ID = record.Embedding.UUID()
		}
		docs = append(docs, record)
	}
	col.AddRecords(docs...)
	return nil
}

func (e *Engine) Search(ctx context.Context, vectors []float64, opts ...vectordb.SearchOption) ([]vectordb.Record, error) {
	var option vectordb.SearchOptions
	for _, opt := range opts {
		opt(&option)
	}
	col, err := e.Collection(ctx, option.Collection)
	if err != nil {
		return nil, err
	}
	records := filterRecords(col.Records(), &option)
	ret := make([]vectordb.Record, 0, len(records))
	for _, record := range records {
		record.Score = vectordb.CosineSimilarity(vectors, record.Embedding.Embedding)
		record.Distance = 1 - record.Score
		if e.MinScore > 0 && record.Score < e.MinScore {
			continue
		}
		ret = append(ret, record)
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Distance < ret[j].Distance
	})
	topK := option.TopK
	if topK <= 0 {
		topK = e.TopK
	}
	if topK <= 0 {
		return nil, nil
	}
	return ret[:min(topK, len(ret))], nil
}

func (e *Engine) Count(ctx context.Context, collectionName string) (int, error) {
	col, err := e.Collection(ctx, collectionName)
	if err != nil {
		return 0, err
	}
	return len(col.Records()), nil
}

func (e *Engine) Delete(ctx context.Context, collectionName string, meta map[string]string) (int, error) {
	col, err := e.Collection(ctx, collectionName)
	if err != nil {
		return 0, err
	}
	return col.RemoveWhere(meta), nil
}

// filterRecords filters records by metadata and content.
// It does this concurrently.
func filterRecords(docs []vectordb.Record, opts *vectordb.SearchOptions) []vectordb.Record {
	numDocs := len(docs)
	if numDocs == 0 {
		return nil
	}
	filteredDocs := make([]vectordb.Record, 0, numDocs)
	var filteredDocsLock sync.Mutex

	// Determine concurrency. Use number of docs or CPUs, whichever is smaller.
	concurrency := min(runtime.NumCPU(), numDocs)

	docChan := make(chan vectordb.Record, concurrency*2)

	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for doc := range docChan {
				if recordMatchesFilters(&doc, opts) {
					filteredDocsLock.Lock()
					filteredDocs = append(filteredDocs, doc)
					filteredDocsLock.Unlock()
				}
			}
		}()
	}

	for _, doc := range docs {
		docChan <- doc
	}
	close(docChan)

	wg.Wait()
	return filteredDocs
}

// recordMatchesFilters checks if a record matches the given filters.
func recordMatchesFilters(record *vectordb.Record, opts *vectordb.SearchOptions) bool {
	if !vectordb.MatchMeta(record.Embedding.Meta, opts.Meta) {
		return false
	}
	if opts.Include != "" && !strings.Contains(record.Embedding.Object, opts.Include) {
		return false
	}
	if opts.Exclude != "" && strings.Contains(record.Embedding.Object, opts.Exclude) {
		return false
	}
	return true
}
