package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/martinemde/relay/gateway"
)

// InvokeFunc executes one tool call. It returns human-readable text for
// the model to consume; an error is normalized into an error-flagged tool
// result by the loop, never raised out of it.
type InvokeFunc func(ctx context.Context, args json.RawMessage) (string, error)

// ToolSpec describes a callable tool: a unique name, a natural-language
// description the model uses to decide invocation, a JSON Schema for the
// parameters, and the invocation function. Immutable once registered.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
	Invoke      InvokeFunc
}

// Definition returns the serializable part of the spec. The invocation
// function is never exposed to the model.
func (s ToolSpec) Definition() gateway.ToolDefinition {
	return gateway.ToolDefinition{
		Name:        s.Name,
		Description: s.Description,
		Parameters:  s.Parameters,
	}
}

// Registry maps tool names to specifications. Registration happens once at
// startup; afterwards the registry is read-only and safe for concurrent
// access from many conversation threads.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]ToolSpec
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]ToolSpec)}
}

// Register adds a tool. A name collision fails with ErrDuplicateTool.
func (r *Registry) Register(spec ToolSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("register tool: empty name")
	}
	if spec.Invoke == nil {
		return fmt.Errorf("register tool %s: nil invoke function", spec.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[spec.Name]; exists {
		return fmt.Errorf("register tool %s: %w", spec.Name, ErrDuplicateTool)
	}
	r.tools[spec.Name] = spec
	return nil
}

// Resolve returns the spec registered under name, or ErrToolNotFound.
func (r *Registry) Resolve(name string) (ToolSpec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.tools[name]
	if !ok {
		return ToolSpec{}, fmt.Errorf("resolve tool %s: %w", name, ErrToolNotFound)
	}
	return spec, nil
}

// Definitions returns all tool definitions, sorted by name so the model
// sees a stable tool listing across calls.
func (r *Registry) Definitions() []gateway.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]gateway.ToolDefinition, 0, len(r.tools))
	for _, spec := range r.tools {
		defs = append(defs, spec.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Names returns the sorted names of all registered tools.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
