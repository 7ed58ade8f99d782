// Package semanticsearch looks up personal logs similar to a subquestion.
package semanticsearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/bububa/lifelog-agent/components/semantic"
	"github.com/bububa/lifelog-agent/tools"
)

// DefaultTopK is the number of matches returned
const DefaultTopK = 3

// Searcher is the part of semantic.Service the tool depends on
type Searcher interface {
	Search(ctx context.Context, text string, n int) ([]semantic.Match, error)
}

var _ Searcher = (*semantic.Service)(nil)

type Config struct {
	tools.Config
	topK int
}

type Option func(*Config)

func WithTopK(n int) Option {
	return func(c *Config) {
		c.topK = n
	}
}

type Tool struct {
	Config
	searcher Searcher
}

var _ tools.Tool = (*Tool)(nil)

func New(searcher Searcher, opts ...Option) *Tool {
	ret := &Tool{searcher: searcher}
	ret.SetTitle(tools.ChromaSemanticSearch)
	ret.SetDescription("semantic search over the user's free-text personal logs, for questions about past experiences, feelings and events")
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.topK <= 0 {
		ret.topK = DefaultTopK
	}
	return ret
}

func (t *Tool) Invoke(ctx context.Context, query string) (string, error) {
	matches, err := t.searcher.Search(ctx, query, t.topK)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return tools.NotFound("No matching personal logs found."), nil
	}
	sb := new(strings.Builder)
	sb.WriteString("Semantic search results:")
	for idx, match := range matches {
		fmt.Fprintf(sb, "\n%d. ", idx+1)
		if date := match.Date(); date != "" {
			fmt.Fprintf(sb, "[%s] ", date)
		}
		fmt.Fprintf(sb, "%s (distance: %.3f)", match.Document, match.Distance)
	}
	return sb.String(), nil
}
