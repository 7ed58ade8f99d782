package tools

import (
	"fmt"
	"strings"
)

// Registry maps tool names to tools. It is read-only once built.
type Registry struct {
	tools       map[string]Tool
	names       []string
	defaultName string
}

// NewRegistry registers tools under their titles, defaultName must be one of them
func NewRegistry(defaultName string, tools ...Tool) (*Registry, error) {
	ret := &Registry{
		tools:       make(map[string]Tool, len(tools)),
		names:       make([]string, 0, len(tools)),
		defaultName: defaultName,
	}
	for _, tool := range tools {
		name := tool.Title()
		if name == "" {
			return nil, fmt.Errorf("tool without title: %T", tool)
		}
		if _, exists := ret.tools[name]; exists {
			return nil, fmt.Errorf("duplicate tool: %s", name)
		}
		ret.tools[name] = tool
		ret.names = append(ret.names, name)
	}
	if _, ok := ret.tools[defaultName]; !ok {
		return nil, fmt.Errorf("default tool %s is not registered", defaultName)
	}
	return ret, nil
}

// Lookup returns the tool registered under name
func (r *Registry) Lookup(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Resolve returns the tool registered under name, or the default tool when there is none
func (r *Registry) Resolve(name string) (string, Tool) {
	if tool, ok := r.tools[name]; ok {
		return name, tool
	}
	return r.defaultName, r.tools[r.defaultName]
}

func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

func (r *Registry) Default() string {
	return r.defaultName
}

// Names returns tool names in registration order
func (r *Registry) Names() []string {
	ret := make([]string, len(r.names))
	copy(ret, r.names)
	return ret
}

// Title implements systemprompt.ContextProvider
func (r *Registry) Title() string {
	return "Available tools"
}

// Info enumerates the registered tools with their purposes
func (r *Registry) Info() string {
	lines := make([]string, 0, len(r.names))
	for idx, name := range r.names {
		lines = append(lines, fmt.Sprintf("%d. %s: %s", idx+1, name, r.tools[name].Description()))
	}
	return strings.Join(lines, "\n")
}
