package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiLLM implements LLM over Google's Gemini API with function calling.
type GeminiLLM struct {
	client  *genai.Client
	modelID string
}

func NewGeminiLLM(ctx context.Context, apiKey, modelID string) (*GeminiLLM, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("agent: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.0-flash-001"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("agent: failed to create gemini client: %w", err)
	}

	return &GeminiLLM{client: client, modelID: modelID}, nil
}

func (g *GeminiLLM) Generate(ctx context.Context, system string, msgs []Message, tools []ToolSpec) (Reply, error) {
	if len(msgs) == 0 {
		return Reply{}, errors.New("agent: gemini requires at least one message")
	}

	model := g.client.GenerativeModel(g.modelID)
	if strings.TrimSpace(system) != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}
	if len(tools) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: toDeclarations(tools)}}
	}

	contents, err := toContents(msgs)
	if err != nil {
		return Reply{}, err
	}

	cs := model.StartChat()
	cs.History = contents[:len(contents)-1]
	last := contents[len(contents)-1]

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return Reply{}, fmt.Errorf("agent: gemini completion failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return Reply{}, errors.New("agent: gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return Reply{}, errors.New("agent: gemini returned empty content")
	}

	var reply Reply
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			args, err := json.Marshal(p.Args)
			if err != nil {
				return Reply{}, fmt.Errorf("agent: failed to encode args of %s: %w", p.Name, err)
			}
			reply.Calls = append(reply.Calls, ToolCall{Name: p.Name, Args: args})
		}
	}
	reply.Text = strings.TrimSpace(text.String())
	return reply, nil
}

// Close releases resources held by the underlying client.
func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// toContents rebuilds the Gemini chat transcript. Tool entries become a
// model-side function call followed by a user-side function response, which
// is how the chat API expects executed calls to be replayed.
func toContents(msgs []Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case RoleUser:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		case RoleAssistant:
			if strings.TrimSpace(msg.Content) == "" {
				continue
			}
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		case RoleTool:
			var args map[string]any
			if len(msg.ToolArgs) > 0 {
				if err := json.Unmarshal(msg.ToolArgs, &args); err != nil {
					return nil, fmt.Errorf("agent: corrupt tool args for %s: %w", msg.ToolName, err)
				}
			}
			contents = append(contents,
				&genai.Content{
					Role:  "model",
					Parts: []genai.Part{genai.FunctionCall{Name: msg.ToolName, Args: args}},
				},
				&genai.Content{
					Role:  "user",
					Parts: []genai.Part{genai.FunctionResponse{Name: msg.ToolName, Response: toResponseMap(msg.ToolResult)}},
				},
			)
		}
	}
	if len(contents) == 0 {
		return nil, errors.New("agent: transcript has no sendable messages")
	}
	return contents, nil
}

// toResponseMap coerces a tool result into the map payload the API requires.
// Non-object results (lists, scalars) are wrapped under "result".
func toResponseMap(raw json.RawMessage) map[string]any {
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err == nil {
		return asMap
	}
	var asAny any
	if err := json.Unmarshal(raw, &asAny); err == nil {
		return map[string]any{"result": asAny}
	}
	return map[string]any{"result": string(raw)}
}

func toDeclarations(tools []ToolSpec) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  toGenaiSchema(t.Parameters),
		})
	}
	return decls
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        toGenaiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func toGenaiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
