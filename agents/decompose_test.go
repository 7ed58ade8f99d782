package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/lifelog-agent/tools"
)

func TestParseDecomposition(t *testing.T) {
	parsed, err := ParseDecomposition(`{"subquestions": ["How did I sleep?", "Weather tomorrow?"], "tool_choices": ["query_daily_logs", " web_search "]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"How did I sleep?", "Weather tomorrow?"}, parsed.Subquestions)
	assert.Equal(t, []string{"query_daily_logs", "web_search"}, parsed.ToolChoices)
}

func TestParseDecompositionCodeFence(t *testing.T) {
	parsed, err := ParseDecomposition("```json\n{\"subquestions\": [\"a\"], \"tool_choices\": [\"web_search\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, parsed.Subquestions)
}

func TestParseDecompositionErrors(t *testing.T) {
	cases := map[string]error{
		`{"subquestions": ["a"]}`:                                 ErrMissingKeys,
		`{"tool_choices": ["web_search"]}`:                        ErrMissingKeys,
		`{"subquestions": null, "tool_choices": ["web_search"]}`:  ErrMissingKeys,
		`{"subquestions": ["a", "b"], "tool_choices": ["x"]}`:     ErrLengthMismatch,
		`{"subquestions": [], "tool_choices": []}`:                ErrNoSubquestions,
		`{"subquestions": ["a"], "tool_choices": [""]}`:           ErrEmptyEntry,
		`{"subquestions": [" "], "tool_choices": ["web_search"]}`: ErrEmptyEntry,
		`{"subquestions": ["a"], "tool_choices": [null]}`:         ErrEmptyEntry,
	}
	for raw, expect := range cases {
		_, err := ParseDecomposition(raw)
		assert.ErrorIs(t, err, expect, raw)
	}
	for _, raw := range []string{
		"",
		"Sure! Here are your subquestions.",
		`["a", "b"]`,
		`{"subquestions": [1], "tool_choices": ["web_search"]}`,
		`{"subquestions": "a", "tool_choices": "web_search"}`,
		`{"subquestions": ["a"], "tool_choices": ["web_search"]`,
	} {
		_, err := ParseDecomposition(raw)
		assert.Error(t, err, raw)
	}
}

func TestDecomposerFallbackOnMalformedOutput(t *testing.T) {
	tt := newTestTools()
	query := "How was my week?"
	for _, raw := range []reply{
		{text: "not json"},
		{text: `{"subquestions": ["a", "b"], "tool_choices": ["web_search"]}`},
		{text: `{"questions": ["a"], "tools": ["web_search"]}`},
		{text: `{"subquestions": [], "tool_choices": []}`},
		{err: errors.New("rate limited")},
	} {
		d := NewDecomposer(newScriptedLLM(raw), tt.registry, zerolog.Nop())
		state := NewState(query)
		require.NoError(t, d.Run(context.Background(), state))
		assert.Equal(t, []string{query}, state.Subquestions)
		assert.Equal(t, []string{tools.QueryDailyLogs}, state.ToolChoices)
	}
}

func TestDecomposerParsed(t *testing.T) {
	tt := newTestTools()
	l := newScriptedLLM(reply{text: `{"subquestions": ["How did I sleep?", "Weather?"], "tool_choices": ["query_daily_logs", "web_search"]}`})
	d := NewDecomposer(l, tt.registry, zerolog.Nop())
	got := d.Decompose(context.Background(), "How did I sleep and what's the weather?", nil)
	parsed, ok := got.(Parsed)
	require.True(t, ok)
	assert.Equal(t, []string{"query_daily_logs", "web_search"}, parsed.ToolChoices)
	require.Equal(t, 1, l.Calls())

	messages := l.messages[0]
	require.Len(t, messages, 2)
	system := messages[0].Text()
	for _, name := range tt.registry.Names() {
		assert.Contains(t, system, name)
	}
	assert.Equal(t, "User query: How did I sleep and what's the weather?", messages[1].Text())
}

func TestDecomposerKeepsUnknownToolNames(t *testing.T) {
	tt := newTestTools()
	l := newScriptedLLM(reply{text: `{"subquestions": ["a"], "tool_choices": ["calculator"]}`})
	state := NewState("a")
	require.NoError(t, NewDecomposer(l, tt.registry, zerolog.Nop()).Run(context.Background(), state))
	assert.Equal(t, []string{"calculator"}, state.ToolChoices)
}
