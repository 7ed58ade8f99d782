package cot

import (
	"fmt"
	"strings"

	"github.com/bububa/lifelog-agent/components/systemprompt"
)

// Section titles in the order they are rendered
const (
	SectionIdentity = "IDENTITY and PURPOSE"
	SectionSteps    = "INTERNAL ASSISTANT STEPS"
	SectionOutput   = "OUTPUT INSTRUCTIONS"
	SectionContext  = "EXTRA INFORMATION AND CONTEXT"
)

// Generator is Chain-of-Thought system prompt generator
type Generator struct {
	systemprompt.BaseGenerator
	background      []string
	steps           []string
	outputInstructs []string
}

var _ systemprompt.Generator = (*Generator)(nil)

// New returns a new system prompt Generator
func New(options ...Option) *Generator {
	ret := new(Generator)
	for _, opt := range options {
		opt(ret)
	}
	if len(ret.background) == 0 {
		ret.background = []string{"- This is a conversation with a helpful and friendly AI assistant."}
	}
	return ret
}

func (g *Generator) Generate() string {
	var (
		sections = map[string][]string{
			SectionIdentity: g.background,
			SectionSteps:    g.steps,
			SectionOutput:   g.outputInstructs,
		}
		promptParts []string
	)
	for _, title := range []string{SectionIdentity, SectionSteps, SectionOutput} {
		content := sections[title]
		if len(content) > 0 {
			promptParts = append(promptParts, fmt.Sprintf("# %s", title))
			promptParts = append(promptParts, content...)
			promptParts = append(promptParts, "")
		}
	}
	var extra []string
	for _, provider := range g.ContextProviders() {
		if info := provider.Info(); info != "" {
			extra = append(extra, fmt.Sprintf("## %s", provider.Title()), info, "")
		}
	}
	if len(extra) > 0 {
		promptParts = append(promptParts, fmt.Sprintf("# %s", SectionContext))
		promptParts = append(promptParts, extra...)
	}
	return strings.TrimSpace(strings.Join(promptParts, "\n"))
}
