package agents

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bububa/lifelog-agent/tools"
)

// Executor invokes the routed tool of every subquestion, one at a time and in order
type Executor struct {
	registry *tools.Registry
	logger   zerolog.Logger
}

var _ Stage = (*Executor)(nil)

func NewExecutor(registry *tools.Registry, logger zerolog.Logger) *Executor {
	return &Executor{
		registry: registry,
		logger:   logger,
	}
}

func (e *Executor) Name() string {
	return "execute"
}

// Run fills state.ToolResults, a failing tool yields an error marker instead of aborting the run
func (e *Executor) Run(ctx context.Context, state *State) error {
	results := make([]string, len(state.Subquestions))
	for idx, subquestion := range state.Subquestions {
		results[idx] = e.Invoke(ctx, state.ToolChoices[idx], subquestion)
	}
	state.ToolResults = results
	return nil
}

// Invoke runs the tool registered under name, or the default tool for an unknown name
func (e *Executor) Invoke(ctx context.Context, name string, argument string) (result string) {
	resolved, tool := e.registry.Resolve(name)
	if resolved != name {
		e.logger.Debug().Str("tool", name).Str("default", resolved).Msg("unknown tool, using default")
	}
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			e.logger.Warn().Str("tool", resolved).Err(err).Msg("tool invocation failed")
			result = tools.ErrorMarker(resolved, err)
		}
	}()
	out, err := tool.Invoke(ctx, argument)
	if err != nil {
		e.logger.Warn().Str("tool", resolved).Err(err).Msg("tool invocation failed")
		return tools.ErrorMarker(resolved, err)
	}
	return out
}
