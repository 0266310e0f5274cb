package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// ToolFunc executes one tool call. Args is the raw JSON argument object the
// model produced; the returned value is serialized back to the model.
type ToolFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Tool binds a declaration to its implementation.
type Tool struct {
	Name        string
	Description string
	Parameters  *Schema
	Run         ToolFunc
}

// Registry holds the tools the assistant may call.
type Registry struct {
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering the same name twice is a wiring bug and
// fails loudly.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("agent: tool name is required")
	}
	if t.Run == nil {
		return fmt.Errorf("agent: tool %q has no implementation", t.Name)
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("agent: tool %q registered twice", t.Name)
	}
	r.tools[t.Name] = t
	return nil
}

// MustRegister is Register for static wiring at startup.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Specs returns the declarations for every registered tool, ordered by name
// so prompts stay deterministic.
func (r *Registry) Specs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(r.tools))
	for _, t := range r.tools {
		specs = append(specs, ToolSpec{Name: t.Name, Description: t.Description, Parameters: t.Parameters})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Invoke runs the named tool and returns its result as JSON. A tool whose
// implementation fails yields an error payload for the model to recover
// from; only an unknown tool or an unserializable result is an Invoke error.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("agent: unknown tool %q", name)
	}

	result, err := t.Run(ctx, args)
	if err != nil {
		return json.Marshal(map[string]string{"error": err.Error()})
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("agent: tool %q produced unserializable result: %w", name, err)
	}
	return payload, nil
}
