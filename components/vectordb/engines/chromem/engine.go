package chromem

import (
	"context"
	"fmt"
	"os"

	"github.com/philippgille/chromem-go"

	"github.com/bububa/lifelog-agent/components/vectordb"
)

type Engine struct {
	db *chromem.DB
	vectordb.Options
}

var _ vectordb.Engine = (*Engine)(nil)

func New(db *chromem.DB, opts ...vectordb.Option) *Engine {
	ret := &Engine{
		db: db,
	}
	for _, opt := range append([]vectordb.Option{vectordb.WithEngine(vectordb.Chromem)}, opts...) {
		opt(&ret.Options)
	}
	return ret
}

// Open opens (or creates) a persistent chromem database in dir
func Open(dir string, compress bool, opts ...vectordb.Option) (*Engine, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chromem directory: %w", err)
	}
	db, err := chromem.NewPersistentDB(dir, compress)
	if err != nil {
		return nil, fmt.Errorf("open chromem db: %w", err)
	}
	return New(db, opts...), nil
}

// noEmbedding is registered on collections so chromem never reaches out to a provider,
// every document and query arrives with its vector already computed.
func noEmbedding(context.Context, string) ([]float32, error) {
	return nil, fmt.Errorf("chromem: documents must carry their embeddings")
}

func (e *Engine) Collection(_ context.Context, name string) (*chromem.Collection, error) {
	return e.db.GetOrCreateCollection(name, nil, noEmbedding)
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
	count := len(records)
	docs := make([]chromem.Document, 0, count)
	for _, record := range records {
		var doc chromem.Document
		recordToDocument(&record, &doc)
		docs = append(docs, doc)
	}
	// Insert documents in batches to avoid memory issues
	batchSize := 100
	for i := 0; i < count; i += batchSize {
		end := min(i+batchSize, count)
		for _, doc := range docs[i:end] {
			if err := col.AddDocument(ctx, doc); err != nil {
				return err
			}
		}
	}
	return nil
}

// Search performs vector similarity search on a collection.
func (e *Engine) Search(ctx context.Context, vectors []float64, opts ...vectordb.SearchOption) ([]vectordb.Record, error) {
	var option vectordb.SearchOptions
	for _, opt := range opts {
		opt(&option)
	}
	col, err := e.Collection(ctx, option.Collection)
	if err != nil {
		return nil, err
	}
	topK := option.TopK
	if topK <= 0 {
		topK = e.TopK
	}
	// chromem refuses nResults larger than the collection
	topK = min(topK, col.Count())
	if topK <= 0 {
		return nil, nil
	}
	whereDocument := make(map[string]string, 2)
	if option.Include != "" {
		whereDocument["$contains"] = option.Include
	}
	if option.Exclude != "" {
		whereDocument["$not_contains"] = option.Exclude
	}
	results, err := col.QueryEmbedding(ctx, vectordb.Float32s(vectors), topK, option.Meta, whereDocument)
	if err != nil {
		return nil, err
	}
	records := make([]vectordb.Record, 0, len(results))
	for _, result := range results {
		var rec vectordb.Record
		resultToRecord(&result, &rec)
		if e.MinScore > 0 && rec.Score < e.MinScore {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (e *Engine) Count(ctx context.Context, collectionName string) (int, error) {
	col, err := e.Collection(ctx, collectionName)
	if err != nil {
		return 0, err
	}
	return col.Count(), nil
}

func (e *Engine) DropCollection(_ context.Context, name string) error {
	return e.db.DeleteCollection(name)
}

func (e *Engine) Delete(ctx context.Context, collectionName string, meta map[string]string) (int, error) {
	if len(meta) == 0 {
		return 0, fmt.Errorf("chromem: delete requires a metadata filter")
	}
	col, err := e.Collection(ctx, collectionName)
	if err != nil {
		return 0, err
	}
	before := col.Count()
	if err := col.Delete(ctx, meta, nil); err != nil {
		return 0, err
	}
	return before - col.Count(), nil
}

func resultToRecord(res *chromem.Result, record *vectordb.Record) {
	record.ID = res.ID
	record.Score = float64(res.Similarity)
	record.Distance = 1 - record.Score
	record.Embedding.Object = res.Content
	record.Embedding.Meta = res.Metadata
}

func recordToDocument(record *vectordb.Record, doc *chromem.Document) {
	if record.ID == "" {
		record.ID = record.Embedding.UUID()
	}
	doc.ID = record.ID
	doc.Content = record.Embedding.Object
	doc.Metadata = record.Embedding.Meta
	doc.Embedding = vectordb.Float32s(record.Embedding.Embedding)
}
