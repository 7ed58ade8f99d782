package agents

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/lifelog-agent/tools"
)

const testUserID = "7f1c2d9e-0000-4000-8000-000000000001"

func TestOverrideAverageTransaction(t *testing.T) {
	o := NewOverrider(testUserID, zerolog.Nop())
	subq, tool := o.Apply("What's my average transaction amount this week?", tools.QueryDailyLogs)
	assert.Equal(t, "SELECT AVG(transaction_amount) FROM financial_transactions WHERE user_id = '"+testUserID+"' AND transaction_date >= CURRENT_DATE - INTERVAL '7 days';", subq)
	assert.Equal(t, tools.RunSQLQuery, tool)
}

func TestOverrideAggregates(t *testing.T) {
	o := NewOverrider("u1", zerolog.Nop())
	cases := []struct {
		subquestion string
		expect      string
	}{
		{"total gym time", "SELECT SUM(duration_minutes) FROM gym_logs WHERE user_id = 'u1' AND date >= CURRENT_DATE - INTERVAL '7 days';"},
		{"Sum of my expenses", "SELECT SUM(transaction_amount) FROM financial_transactions WHERE user_id = 'u1' AND transaction_date >= CURRENT_DATE - INTERVAL '7 days';"},
		{"count my jiu-jitsu sessions", "SELECT COUNT(duration_minutes) FROM jiu_jitsu_logs WHERE user_id = 'u1' AND date >= CURRENT_DATE - INTERVAL '7 days';"},
		{"min productivity in my logs", "SELECT MIN(productivity_score) FROM daily_logs WHERE user_id = 'u1' AND date >= CURRENT_DATE - INTERVAL '7 days';"},
		{"MAX BJJ session", "SELECT MAX(duration_minutes) FROM jiu_jitsu_logs WHERE user_id = 'u1' AND date >= CURRENT_DATE - INTERVAL '7 days';"},
		{"avg daily log score", "SELECT AVG(productivity_score) FROM daily_logs WHERE user_id = 'u1' AND date >= CURRENT_DATE - INTERVAL '7 days';"},
	}
	for _, c := range cases {
		subq, tool := o.Apply(c.subquestion, tools.WebSearch)
		assert.Equal(t, c.expect, subq, c.subquestion)
		assert.Equal(t, tools.RunSQLQuery, tool, c.subquestion)
	}
}

func TestOverrideTieBreaks(t *testing.T) {
	o := NewOverrider("u1", zerolog.Nop())
	// finance is checked before gym, gym before the generic log keyword
	subq, _ := o.Apply("average gym spending", tools.WebSearch)
	assert.Contains(t, subq, "FROM financial_transactions")
	subq, _ = o.Apply("average duration of gym logs", tools.WebSearch)
	assert.Contains(t, subq, "FROM gym_logs")
	// average is checked before max
	subq, _ = o.Apply("max and average gym duration", tools.WebSearch)
	assert.Contains(t, subq, "SELECT AVG(")
	// sum/total before count
	subq, _ = o.Apply("count the total of transactions", tools.WebSearch)
	assert.Contains(t, subq, "SELECT SUM(")
}

func TestOverrideMatchesInflectedForms(t *testing.T) {
	o := NewOverrider("u1", zerolog.Nop())
	subq, tool := o.Apply("What are my gym averages?", tools.WebSearch)
	assert.Equal(t, "SELECT AVG(duration_minutes) FROM gym_logs WHERE user_id = 'u1' AND date >= CURRENT_DATE - INTERVAL '7 days';", subq)
	assert.Equal(t, tools.RunSQLQuery, tool)

	subq, tool = o.Apply("gym totals this week", tools.WebSearch)
	assert.Equal(t, "SELECT SUM(duration_minutes) FROM gym_logs WHERE user_id = 'u1' AND date >= CURRENT_DATE - INTERVAL '7 days';", subq)
	assert.Equal(t, tools.RunSQLQuery, tool)

	for _, subquestion := range []string{
		"What were my costs this week?",
		"How are my finances?",
		"Show my budgets",
	} {
		subq, tool := o.Apply(subquestion, tools.WebSearch)
		assert.Equal(t, subquestion, subq)
		assert.Equal(t, tools.QueryFinancialTransactions, tool, subquestion)
	}
}

func TestOverrideAggregateBlocksFinanceFallback(t *testing.T) {
	o := NewOverrider("u1", zerolog.Nop())
	subq, tool := o.Apply("What was my total cost this week?", tools.WebSearch)
	assert.Equal(t, "What was my total cost this week?", subq)
	assert.Equal(t, tools.WebSearch, tool)
}

func TestOverrideAggregateWithoutDomain(t *testing.T) {
	o := NewOverrider("u1", zerolog.Nop())
	subq, tool := o.Apply("what is the average rainfall in Paris", tools.WebSearch)
	assert.Equal(t, "what is the average rainfall in Paris", subq)
	assert.Equal(t, tools.WebSearch, tool)
}

func TestOverrideFinanceFallback(t *testing.T) {
	o := NewOverrider("u1", zerolog.Nop())
	for _, subquestion := range []string{
		"How much money did I waste?",
		"What did my budget look like",
		"Show my recent transactions",
		"what was the biggest cost this week",
	} {
		for _, from := range []string{tools.QueryDailyLogs, tools.WebSearch, tools.ChromaSemanticSearch, "unknown"} {
			subq, tool := o.Apply(subquestion, from)
			assert.Equal(t, subquestion, subq)
			assert.Equal(t, tools.QueryFinancialTransactions, tool)
		}
	}
	subq, tool := o.Apply("Show my spending", tools.QueryFinancialTransactions)
	assert.Equal(t, "Show my spending", subq)
	assert.Equal(t, tools.QueryFinancialTransactions, tool)
}

func TestOverrideLeavesOtherQuestions(t *testing.T) {
	o := NewOverrider("u1", zerolog.Nop())
	subq, tool := o.Apply("How did I feel after sparring?", tools.ChromaSemanticSearch)
	assert.Equal(t, "How did I feel after sparring?", subq)
	assert.Equal(t, tools.ChromaSemanticSearch, tool)
}

func TestOverrideIdempotent(t *testing.T) {
	o := NewOverrider("o'brien", zerolog.Nop())
	for _, subquestion := range []string{
		"What's my average transaction amount this week?",
		"total gym time",
		"count my jiu-jitsu sessions",
		"min productivity in my logs",
		"How much money did I waste?",
		"How did I feel after sparring?",
		"average rainfall",
	} {
		for _, tool := range []string{tools.QueryDailyLogs, tools.RunSQLQuery, tools.WebSearch} {
			s1, t1 := o.Apply(subquestion, tool)
			s2, t2 := o.Apply(s1, t1)
			assert.Equal(t, s1, s2, subquestion)
			assert.Equal(t, t1, t2, subquestion)
		}
	}
}

func TestOverrideEscapesUserID(t *testing.T) {
	subq, _ := NewOverrider("o'brien", zerolog.Nop()).Apply("total gym time", tools.WebSearch)
	assert.Contains(t, subq, "user_id = 'o''brien'")
}

func TestOverrideRunKeepsLength(t *testing.T) {
	state := NewState("q")
	state.Route(
		[]string{"average transaction", "how did I sleep", "my money", "weather"},
		[]string{tools.WebSearch, tools.QueryDailyLogs, tools.WebSearch, tools.WebSearch},
	)
	require.NoError(t, NewOverrider("u1", zerolog.Nop()).Run(context.Background(), state))
	require.Equal(t, 4, state.Len())
	assert.Equal(t, []string{tools.RunSQLQuery, tools.QueryDailyLogs, tools.QueryFinancialTransactions, tools.WebSearch}, state.ToolChoices)
	assert.Equal(t, "how did I sleep", state.Subquestions[1])
	assert.Equal(t, "my money", state.Subquestions[2])
}
