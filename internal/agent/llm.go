// Package agent orchestrates the scheduling assistant: it feeds the
// conversation to a language model, executes the tool calls the model
// requests against the directory, availability and booking services, and
// persists the conversation state as checkpoints between turns.
package agent

import (
	"context"
	"encoding/json"
)

// Chat roles as stored in conversation state.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry of the conversation transcript. Tool entries carry
// the call that produced them alongside the result payload.
type Message struct {
	Role       string          `json:"role"`
	Content    string          `json:"content,omitempty"`
	ToolName   string          `json:"tool_name,omitempty"`
	ToolArgs   json.RawMessage `json:"tool_args,omitempty"`
	ToolResult json.RawMessage `json:"tool_result,omitempty"`
}

// ToolCall is a single function invocation requested by the model.
type ToolCall struct {
	Name string
	Args json.RawMessage
}

// Reply is the model's answer to one generation request. A reply carries
// either final text or one or more tool calls to execute before asking again.
type Reply struct {
	Text  string
	Calls []ToolCall
}

// Schema describes a tool parameter in the subset of JSON Schema the model
// providers understand.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// ToolSpec is the declaration advertised to the model for one tool.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  *Schema
}

// LLM generates one assistant reply given the system prompt, the transcript
// so far and the advertised tools.
type LLM interface {
	Generate(ctx context.Context, system string, msgs []Message, tools []ToolSpec) (Reply, error)
}
