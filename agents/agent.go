// Package agents answers a question by routing its parts to tools and combining what they return.
package agents

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/bububa/lifelog-agent/components/llm"
	"github.com/bububa/lifelog-agent/tools"
)

// DefaultMaxWords is the answer length the model is asked to respect
const DefaultMaxWords = 300

// Config represents the agent configuration
type Config struct {
	userID      string
	profile     string
	profilePath string
	maxWords    int
	logger      zerolog.Logger
	// name is Agent name presentation
	name string
}

// Agent runs the query pipeline: decompose, override, execute, synthesize
type Agent struct {
	Config
	registry    *tools.Registry
	decomposer  *Decomposer
	overrider   *Overrider
	executor    *Executor
	synthesizer *Synthesizer
	chain       *Chain
}

// NewAgent builds an Agent, the profile file is read once here
func NewAgent(l llm.LLM, registry *tools.Registry, options ...Option) *Agent {
	ret := &Agent{
		Config: Config{
			maxWords: DefaultMaxWords,
			logger:   zerolog.Nop(),
			name:     "lifelog",
		},
		registry: registry,
	}
	for _, opt := range options {
		opt(&ret.Config)
	}
	if ret.profilePath != "" {
		ret.profile = LoadProfile(ret.profilePath)
	}
	ret.decomposer = NewDecomposer(l, registry, ret.logger)
	ret.overrider = NewOverrider(ret.userID, ret.logger)
	ret.executor = NewExecutor(registry, ret.logger)
	ret.synthesizer = NewSynthesizer(l, ret.profile, ret.maxWords, ret.logger)
	ret.chain = NewChain(ret.decomposer, ret.overrider, ret.executor, ret.synthesizer)
	return ret
}

// LoadProfile returns the content of path, empty when it cannot be read
func LoadProfile(path string) string {
	bs, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(bs)
}

func (a *Agent) Name() string {
	return a.name
}

func (a *Agent) Profile() string {
	return a.profile
}

func (a *Agent) Registry() *tools.Registry {
	return a.registry
}

// Run runs every stage against state
func (a *Agent) Run(ctx context.Context, state *State) error {
	return a.chain.Run(ctx, state)
}

// ProcessQuery answers query, only a failed synthesis call is returned as an error
func (a *Agent) ProcessQuery(ctx context.Context, query string) (string, error) {
	state := NewState(query)
	if err := a.Run(ctx, state); err != nil {
		return "", err
	}
	a.logger.Debug().
		Int("subquestions", state.Len()).
		Int("input_tokens", state.Usage.InputTokens).
		Int("output_tokens", state.Usage.OutputTokens).
		Msg("query processed")
	return state.Answer, nil
}
