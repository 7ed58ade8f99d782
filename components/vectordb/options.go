package vectordb

type Options struct {
	EngineType EngineType // Database type (e.g., "chromem", "memory")
	TopK       int        // Maximum number of results to return
	MinScore   float64    // Minimum similarity score threshold
}

// Option is a function type for configuring VectorDB instances.
type Option func(*Options)

// WithEngine sets the database type.
// Supported types:
// - "chromem": embedded persistent storage
// - "memory": In-memory database for testing
func WithEngine(engine EngineType) Option {
	return func(c *Options) {
		c.EngineType = engine
	}
}

// WithTopK sets the default maximum number of results to return.
func WithTopK(k int) Option {
	return func(c *Options) {
		c.TopK = k
	}
}

// WithMinScore sets the minimum similarity score threshold.
// Results with scores below this threshold will be filtered out.
func WithMinScore(score float64) Option {
	return func(c *Options) {
		c.MinScore = score
	}
}
