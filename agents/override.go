package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bububa/lifelog-agent/tools"
	"github.com/bububa/lifelog-agent/tools/records"
)

type aggregate struct {
	function string
	keywords []string
}

// aggregates are checked in order, the first match decides the function.
// Keywords match anywhere in the lower-cased text, "averages" and "totals" included.
var aggregates = []aggregate{
	{function: "AVG", keywords: []string{"average", "avg"}},
	{function: "SUM", keywords: []string{"sum", "total"}},
	{function: "COUNT", keywords: []string{"count"}},
	{function: "MIN", keywords: []string{"min"}},
	{function: "MAX", keywords: []string{"max"}},
}

type domain struct {
	category records.Category
	keywords []string
}

// domains are checked in order, the first match decides the category.
// "log" comes last so "gym logs" stays with the gym.
var domains = []domain{
	{category: records.Finance, keywords: []string{"transaction", "financ", "expense", "spend"}},
	{category: records.Gym, keywords: []string{"gym", "workout"}},
	{category: records.JiuJitsu, keywords: []string{"jiu", "bjj"}},
	{category: records.Daily, keywords: []string{"log"}},
}

var financeWords = []string{
	"spending",
	"expense",
	"finance",
	"financial",
	"money",
	"transaction",
	"cost",
	"budget",
}

// AggregateQuery builds the statement computing function over the category for the last 7 days
func AggregateQuery(function string, category records.Category, userID string) string {
	return fmt.Sprintf(
		"SELECT %s(%s) FROM %s WHERE user_id = '%s' AND %s >= CURRENT_DATE - INTERVAL '7 days';",
		function, category.ValueColumn, category.Table, strings.ReplaceAll(userID, "'", "''"), category.DateColumn,
	)
}

// Overrider corrects the model's routing for aggregate and finance questions
type Overrider struct {
	userID       string
	rawQueryTool string
	financeTool  string
	logger       zerolog.Logger
}

var _ Stage = (*Overrider)(nil)

func NewOverrider(userID string, logger zerolog.Logger) *Overrider {
	return &Overrider{
		userID:       userID,
		rawQueryTool: tools.RunSQLQuery,
		financeTool:  records.Finance.Name,
		logger:       logger,
	}
}

func (o *Overrider) Name() string {
	return "override"
}

// Apply returns the possibly rewritten subquestion and tool for one entry
func (o *Overrider) Apply(subquestion string, tool string) (string, string) {
	if tool == o.rawQueryTool && isGeneratedQuery(subquestion) {
		return subquestion, tool
	}
	text := strings.ToLower(subquestion)
	if function, ok := detectAggregate(text); ok {
		if category, ok := detectDomain(text); ok {
			return AggregateQuery(function, category, o.userID), o.rawQueryTool
		}
		return subquestion, tool
	}
	if tool != o.financeTool && containsAny(text, financeWords) {
		return subquestion, o.financeTool
	}
	return subquestion, tool
}

// Run rewrites the routed entries in place
func (o *Overrider) Run(_ context.Context, state *State) error {
	for idx := range state.Subquestions {
		subquestion, tool := o.Apply(state.Subquestions[idx], state.ToolChoices[idx])
		if subquestion == state.Subquestions[idx] && tool == state.ToolChoices[idx] {
			continue
		}
		o.logger.Debug().
			Int("index", idx).
			Str("from_tool", state.ToolChoices[idx]).
			Str("to_tool", tool).
			Str("subquestion", subquestion).
			Msg("routing overridden")
		state.Subquestions[idx] = subquestion
		state.ToolChoices[idx] = tool
	}
	return nil
}

func isGeneratedQuery(s string) bool {
	return len(s) >= 7 && strings.EqualFold(s[:7], "SELECT ")
}

func detectAggregate(text string) (string, bool) {
	for _, agg := range aggregates {
		if containsAny(text, agg.keywords) {
			return agg.function, true
		}
	}
	return "", false
}

func detectDomain(text string) (records.Category, bool) {
	for _, d := range domains {
		if containsAny(text, d.keywords) {
			return d.category, true
		}
	}
	return records.Category{}, false
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
