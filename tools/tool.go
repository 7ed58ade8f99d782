package tools

import (
	"context"
)

// Tool is a capability the pipeline can route a subquestion to
type Tool interface {
	Title() string
	Description() string
	// Invoke answers argument with a plain text result
	Invoke(ctx context.Context, argument string) (string, error)
}

// Tool names known to the pipeline
const (
	QueryDailyLogs             = "query_daily_logs"
	QueryGymLogs               = "query_gym_logs"
	QueryFinancialTransactions = "query_financial_transactions"
	QueryJiuJitsuLogs          = "query_jiujitsu_logs"
	RunSQLQuery                = "run_sql_query"
	ChromaSemanticSearch       = "chroma_semantic_search"
	WebSearch                  = "web_search"
)

// Func adapts a function to the Tool interface
type Func struct {
	Config
	fn func(context.Context, string) (string, error)
}

var _ Tool = (*Func)(nil)

func NewFunc(fn func(context.Context, string) (string, error), opts ...Option) *Func {
	ret := &Func{fn: fn}
	for _, opt := range opts {
		opt(&ret.Config)
	}
	return ret
}

func (f *Func) Invoke(ctx context.Context, argument string) (string, error) {
	return f.fn(ctx, argument)
}
