package agents

import "github.com/bububa/lifelog-agent/components"

// State is carried through the stages of one pipeline run.
// Subquestions, ToolChoices and ToolResults are index aligned.
type State struct {
	// Query is the user input, it never changes during a run
	Query        string
	Subquestions []string
	ToolChoices  []string
	ToolResults  []string
	Answer       string
	// Usage accumulates the tokens spent by model calls
	Usage *components.LLMUsage
}

func NewState(query string) *State {
	return &State{
		Query: query,
		Usage: new(components.LLMUsage),
	}
}

// Len returns the number of routed subquestions
func (s *State) Len() int {
	return len(s.Subquestions)
}

// Route replaces the routed subquestions and clears previous results
func (s *State) Route(subquestions []string, toolChoices []string) {
	s.Subquestions = subquestions
	s.ToolChoices = toolChoices
	s.ToolResults = nil
}

func (s *State) aligned() bool {
	if len(s.Subquestions) != len(s.ToolChoices) {
		return false
	}
	return s.ToolResults == nil || len(s.ToolResults) == len(s.Subquestions)
}

func (s *State) addUsage(resp *components.LLMResponse) {
	if resp == nil || resp.Usage == nil {
		return
	}
	if s.Usage == nil {
		s.Usage = new(components.LLMUsage)
	}
	s.Usage.Merge(resp.Usage)
}
