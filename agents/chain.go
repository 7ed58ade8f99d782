package agents

import (
	"context"
	"errors"
	"fmt"
)

// ErrMisaligned is returned when a stage leaves the routed sequences with different lengths
var ErrMisaligned = errors.New("pipeline state sequences are not aligned")

// Stage is one step of the query pipeline
type Stage interface {
	Name() string
	Run(ctx context.Context, state *State) error
}

// Chain runs stages in order, once each
type Chain struct {
	stages []Stage
}

// NewChain returns a new Chain instance
func NewChain(stages ...Stage) *Chain {
	return &Chain{
		stages: stages,
	}
}

func (c *Chain) Stages() []Stage {
	return c.stages
}

// Run runs every stage against state synchronously, stopping at the first error
func (c *Chain) Run(ctx context.Context, state *State) error {
	for _, stage := range c.stages {
		if err := stage.Run(ctx, state); err != nil {
			return fmt.Errorf("%s: %w", stage.Name(), err)
		}
		if !state.aligned() {
			return fmt.Errorf("%s: %w", stage.Name(), ErrMisaligned)
		}
	}
	return nil
}
