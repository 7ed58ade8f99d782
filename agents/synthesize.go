package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bububa/lifelog-agent/components"
	"github.com/bububa/lifelog-agent/components/llm"
	"github.com/bububa/lifelog-agent/components/systemprompt"
	"github.com/bububa/lifelog-agent/components/systemprompt/cot"
	"github.com/bububa/lifelog-agent/tools"
)

// FallbackAnswer is returned when no tool produced usable data
const FallbackAnswer = "I couldn't find any relevant data to answer your question."

// Context provider titles of the synthesis prompt
const (
	ProfileTitle     = "About the user (persistent context)"
	ToolResultsTitle = "Results from the tools (personal data, semantic search, web)"
)

// HasUsableResults reports whether at least one result is non-empty, not an error marker and not a "nothing found" marker
func HasUsableResults(results []string) bool {
	for _, result := range results {
		if tools.IsUsable(result) {
			return true
		}
	}
	return false
}

// Synthesizer combines the tool results into the final answer with at most one model call
type Synthesizer struct {
	llm      llm.LLM
	profile  string
	maxWords int
	logger   zerolog.Logger
}

var _ Stage = (*Synthesizer)(nil)

func NewSynthesizer(l llm.LLM, profile string, maxWords int, logger zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		llm:      l,
		profile:  profile,
		maxWords: maxWords,
		logger:   logger,
	}
}

func (s *Synthesizer) Name() string {
	return "synthesize"
}

// Messages builds the synthesis prompt
func (s *Synthesizer) Messages(query string, results []string) []components.Message {
	generator := cot.New(
		cot.WithBackground(
			"- You are a helpful assistant answering the user's questions about their own life.",
		),
		cot.WithSteps(
			"- Read what is known about the user.",
			"- Read the results from the tools, they follow the order of the subquestions.",
			"- Ignore results that report an error or that nothing was found.",
		),
		cot.WithOutputInstructs(
			"- Please combine these into a single, helpful answer.",
			fmt.Sprintf("- Limit your response to %d words.", s.maxWords),
		),
		cot.WithContextProviders(
			systemprompt.NewTextProvider(ProfileTitle, strings.TrimSpace(s.profile)),
			systemprompt.NewTextProvider(ToolResultsTitle, strings.Join(results, "\n")),
		),
	)
	return []components.Message{
		*components.NewTextMessage(components.SystemRole, generator.Generate()),
		*components.NewTextMessage(components.UserRole, "The user asked: "+query),
	}
}

// Synthesize returns FallbackAnswer without calling the model when no result is usable
func (s *Synthesizer) Synthesize(ctx context.Context, query string, results []string, resp *components.LLMResponse) (string, error) {
	if !HasUsableResults(results) {
		s.logger.Info().Int("results", len(results)).Msg("no usable tool results, skipping synthesis")
		return FallbackAnswer, nil
	}
	return s.llm.Chat(ctx, s.Messages(query, results), resp)
}

func (s *Synthesizer) Run(ctx context.Context, state *State) error {
	resp := new(components.LLMResponse)
	answer, err := s.Synthesize(ctx, state.Query, state.ToolResults, resp)
	state.addUsage(resp)
	if err != nil {
		return err
	}
	state.Answer = answer
	return nil
}
