package agents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bububa/lifelog-agent/components"
	"github.com/bububa/lifelog-agent/components/llm"
	"github.com/bububa/lifelog-agent/components/systemprompt"
	"github.com/bububa/lifelog-agent/components/systemprompt/cot"
	"github.com/bububa/lifelog-agent/tools"
)

// Decomposition is the outcome of routing a query, either Parsed or Fallback
type Decomposition interface {
	decomposition()
}

// Parsed holds the model's routing, subquestions and tool choices are aligned and non-empty
type Parsed struct {
	Subquestions []string
	ToolChoices  []string
}

// Fallback routes the whole query to the default tool
type Fallback struct {
	Query string
	// Reason is why the model output was not used
	Reason string
}

func (Parsed) decomposition()   {}
func (Fallback) decomposition() {}

var (
	ErrMissingKeys    = errors.New("missing subquestions or tool_choices")
	ErrLengthMismatch = errors.New("subquestions and tool_choices differ in length")
	ErrNoSubquestions = errors.New("no subquestions")
	ErrEmptyEntry     = errors.New("empty subquestion or tool name")
)

type decompositionJSON struct {
	Subquestions *[]string `json:"subquestions"`
	ToolChoices  *[]string `json:"tool_choices"`
}

// ParseDecomposition decodes the model output, a surrounding markdown code fence is tolerated
func ParseDecomposition(raw string) (Parsed, error) {
	var out decompositionJSON
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &out); err != nil {
		return Parsed{}, err
	}
	if out.Subquestions == nil || out.ToolChoices == nil {
		return Parsed{}, ErrMissingKeys
	}
	subquestions, toolChoices := *out.Subquestions, *out.ToolChoices
	if len(subquestions) != len(toolChoices) {
		return Parsed{}, ErrLengthMismatch
	}
	if len(subquestions) == 0 {
		return Parsed{}, ErrNoSubquestions
	}
	for idx := range subquestions {
		if strings.TrimSpace(subquestions[idx]) == "" || strings.TrimSpace(toolChoices[idx]) == "" {
			return Parsed{}, ErrEmptyEntry
		}
		toolChoices[idx] = strings.TrimSpace(toolChoices[idx])
	}
	return Parsed{Subquestions: subquestions, ToolChoices: toolChoices}, nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

// Decomposer splits a query into subquestions and picks a tool for each with one model call
type Decomposer struct {
	llm       llm.LLM
	registry  *tools.Registry
	generator systemprompt.Generator
	logger    zerolog.Logger
}

var _ Stage = (*Decomposer)(nil)

func NewDecomposer(l llm.LLM, registry *tools.Registry, logger zerolog.Logger) *Decomposer {
	return &Decomposer{
		llm:      l,
		registry: registry,
		logger:   logger,
		generator: cot.New(
			cot.WithBackground(
				"- You are an assistant with access to the tools listed below.",
				"- You route parts of the user's question to the tool best able to answer them.",
			),
			cot.WithSteps(
				"- Given the user query, break it into subquestions.",
				"- For each subquestion, decide which tool to use. Only use tool names from the list.",
				"- Keep subquestions in the order they appear in the query.",
			),
			cot.WithOutputInstructs(
				`- Return only a JSON object: {"subquestions": ["..."], "tool_choices": ["..."]}.`,
				"- tool_choices must be a parallel list with one tool name per subquestion.",
			),
			cot.WithContextProviders(registry),
		),
	}
}

func (d *Decomposer) Name() string {
	return "decompose"
}

// Messages builds the routing prompt for query
func (d *Decomposer) Messages(query string) []components.Message {
	return []components.Message{
		*components.NewTextMessage(components.SystemRole, d.generator.Generate()),
		*components.NewTextMessage(components.UserRole, "User query: "+query),
	}
}

// Decompose never fails, any problem with the model call or its output yields a Fallback
func (d *Decomposer) Decompose(ctx context.Context, query string, resp *components.LLMResponse) Decomposition {
	raw, err := d.llm.Chat(ctx, d.Messages(query), resp)
	if err != nil {
		return Fallback{Query: query, Reason: err.Error()}
	}
	parsed, err := ParseDecomposition(raw)
	if err != nil {
		return Fallback{Query: query, Reason: err.Error()}
	}
	return parsed
}

func (d *Decomposer) Run(ctx context.Context, state *State) error {
	resp := new(components.LLMResponse)
	decomposition := d.Decompose(ctx, state.Query, resp)
	state.addUsage(resp)
	switch v := decomposition.(type) {
	case Parsed:
		d.logger.Debug().Strs("subquestions", v.Subquestions).Strs("tools", v.ToolChoices).Msg("decomposed query")
		state.Route(v.Subquestions, v.ToolChoices)
	case Fallback:
		d.logger.Warn().Str("reason", v.Reason).Str("tool", d.registry.Default()).Msg("decomposition fallback")
		state.Route([]string{v.Query}, []string{d.registry.Default()})
	}
	return nil
}
