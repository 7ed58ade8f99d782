package agents

import (
	"context"
	"errors"
	"sync"

	"github.com/bububa/lifelog-agent/components"
	"github.com/bububa/lifelog-agent/components/llm"
	"github.com/bububa/lifelog-agent/tools"
)

type reply struct {
	text string
	err  error
}

// scriptedLLM answers calls with the scripted replies in order
type scriptedLLM struct {
	mu       sync.Mutex
	replies  []reply
	messages [][]components.Message
}

var _ llm.LLM = (*scriptedLLM)(nil)

func newScriptedLLM(replies ...reply) *scriptedLLM {
	return &scriptedLLM{replies: replies}
}

func (l *scriptedLLM) Provider() llm.Provider { return "scripted" }
func (l *scriptedLLM) Model() string          { return "scripted" }

func (l *scriptedLLM) Chat(_ context.Context, messages []components.Message, resp *components.LLMResponse) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := len(l.messages)
	l.messages = append(l.messages, messages)
	if idx >= len(l.replies) {
		return "", errors.New("unexpected model call")
	}
	if resp != nil {
		resp.Usage = &components.LLMUsage{InputTokens: 10, OutputTokens: 5}
	}
	return l.replies[idx].text, l.replies[idx].err
}

func (l *scriptedLLM) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// recordingTool remembers the arguments it was invoked with
type recordingTool struct {
	tools.Config
	result string
	err    error
	panics bool
	args   []string
}

func newRecordingTool(name string, result string) *recordingTool {
	ret := &recordingTool{result: result}
	ret.SetTitle(name)
	ret.SetDescription("test tool " + name)
	return ret
}

func (t *recordingTool) Invoke(_ context.Context, arg string) (string, error) {
	t.args = append(t.args, arg)
	if t.panics {
		panic("boom")
	}
	if t.err != nil {
		return "", t.err
	}
	return t.result, nil
}

type testTools struct {
	daily    *recordingTool
	gym      *recordingTool
	finance  *recordingTool
	jiujitsu *recordingTool
	sql      *recordingTool
	semantic *recordingTool
	web      *recordingTool
	registry *tools.Registry
}

func newTestTools() *testTools {
	ret := &testTools{
		daily:    newRecordingTool(tools.QueryDailyLogs, "Daily logs for the last 7 days: [{\"mood\":\"good\"}]"),
		gym:      newRecordingTool(tools.QueryGymLogs, "Gym logs for the last 7 days: [{\"duration_minutes\":60}]"),
		finance:  newRecordingTool(tools.QueryFinancialTransactions, "Financial transactions for the last 7 days: [{\"transaction_amount\":12}]"),
		jiujitsu: newRecordingTool(tools.QueryJiuJitsuLogs, "Jiu-jitsu logs for the last 7 days: []"),
		sql:      newRecordingTool(tools.RunSQLQuery, "Query results: [{\"avg\":12}]"),
		semantic: newRecordingTool(tools.ChromaSemanticSearch, "Semantic search results:\n1. felt great"),
		web:      newRecordingTool(tools.WebSearch, "1. Weather (https://example.com)\nSunny"),
	}
	registry, err := tools.NewRegistry(tools.QueryDailyLogs,
		ret.daily, ret.gym, ret.finance, ret.jiujitsu, ret.sql, ret.semantic, ret.web)
	if err != nil {
		panic(err)
	}
	ret.registry = registry
	return ret
}
