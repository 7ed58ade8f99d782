// Package sqlquery runs generated read-only queries against the structured data service.
package sqlquery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bububa/lifelog-agent/components/datastore"
	"github.com/bububa/lifelog-agent/tools"
)

type Config struct {
	tools.Config
	userID string
}

type Option func(*Config)

// WithUserID marks the tool as configured for the user generated queries are scoped to
func WithUserID(id string) Option {
	return func(c *Config) {
		c.userID = id
	}
}

// Tool executes its argument as a query
type Tool struct {
	Config
	store datastore.Store
}

var _ tools.Tool = (*Tool)(nil)

func New(store datastore.Store, opts ...Option) *Tool {
	ret := &Tool{store: store}
	ret.SetTitle(tools.RunSQLQuery)
	ret.SetDescription("runs a read-only SQL query over the user's records, used for averages, sums, counts, minimums and maximums")
	for _, opt := range opts {
		opt(&ret.Config)
	}
	return ret
}

func (t *Tool) Invoke(ctx context.Context, query string) (string, error) {
	if t.userID == "" {
		return tools.NotConfigured(t.Title(), "USER_UUID"), nil
	}
	if t.store == nil {
		return tools.NotConfigured(t.Title(), "DATABASE_URL"), nil
	}
	rows, err := t.store.Query(ctx, query)
	if err != nil {
		return "", fmt.Errorf("run query: %w", err)
	}
	if len(rows) == 0 || (len(rows) == 1 && allNull(rows[0])) {
		return tools.NotFound("No results found for query."), nil
	}
	bs, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Query results: %s", string(bs)), nil
}

// allNull reports whether every column of row is NULL, as aggregates over no rows are
func allNull(row datastore.Row) bool {
	for _, v := range row {
		if v != nil {
			return false
		}
	}
	return true
}
