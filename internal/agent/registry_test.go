package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	tool := Tool{Name: "echo", Run: func(ctx context.Context, args json.RawMessage) (any, error) { return nil, nil }}

	require.NoError(t, r.Register(tool))
	err := r.Register(tool)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered twice")
}

func TestRegisterRequiresNameAndImplementation(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(Tool{Run: func(ctx context.Context, args json.RawMessage) (any, error) { return nil, nil }}))
	assert.Error(t, r.Register(Tool{Name: "no-op"}))
}

func TestInvokeUnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.Invoke(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestInvokeWrapsToolErrorsAsPayload(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Tool{
		Name: "always_fails",
		Run: func(ctx context.Context, args json.RawMessage) (any, error) {
			return nil, errors.New("slot is taken")
		},
	})

	payload, err := r.Invoke(context.Background(), "always_fails", nil)
	require.NoError(t, err, "tool failures are payloads, not invoke errors")

	var out map[string]string
	require.NoError(t, json.Unmarshal(payload, &out))
	assert.Equal(t, "slot is taken", out["error"])
}

func TestSpecsAreSortedByName(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.MustRegister(Tool{Name: name, Run: func(ctx context.Context, args json.RawMessage) (any, error) { return nil, nil }})
	}

	specs := r.Specs()
	require.Len(t, specs, 3)
	assert.Equal(t, "alpha", specs[0].Name)
	assert.Equal(t, "mid", specs[1].Name)
	assert.Equal(t, "zeta", specs[2].Name)
}
