package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedeargo/agend-citas/internal/checkpoint"
	"github.com/fedeargo/agend-citas/pkg/logging"
)

type scriptedLLM struct {
	replies []Reply
	err     error
	seen    [][]Message
}

func (s *scriptedLLM) Generate(ctx context.Context, system string, msgs []Message, tools []ToolSpec) (Reply, error) {
	if s.err != nil {
		return Reply{}, s.err
	}
	copied := make([]Message, len(msgs))
	copy(copied, msgs)
	s.seen = append(s.seen, copied)
	if len(s.replies) == 0 {
		return Reply{Text: "done"}, nil
	}
	next := s.replies[0]
	s.replies = s.replies[1:]
	return next, nil
}

type recordedWrites struct {
	threadID     string
	checkpointID string
	taskID       string
	writes       []checkpoint.ChannelWrite
}

type fakeCheckpointer struct {
	tuples map[string]*checkpoint.Tuple
	writes []recordedWrites
	getErr error
	putErr error
}

func newFakeCheckpointer() *fakeCheckpointer {
	return &fakeCheckpointer{tuples: make(map[string]*checkpoint.Tuple)}
}

func (f *fakeCheckpointer) Get(ctx context.Context, threadID string) (*checkpoint.Tuple, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.tuples[threadID], nil
}

func (f *fakeCheckpointer) Put(ctx context.Context, threadID string, cp *checkpoint.Checkpoint, md *checkpoint.Metadata) (checkpoint.Ref, error) {
	if f.putErr != nil {
		return checkpoint.Ref{}, f.putErr
	}
	f.tuples[threadID] = &checkpoint.Tuple{ThreadID: threadID, Checkpoint: cp, Metadata: md}
	return checkpoint.Ref{ThreadID: threadID, CheckpointID: cp.ID}, nil
}

func (f *fakeCheckpointer) PutWrites(ctx context.Context, threadID, namespace, checkpointID string, writes []checkpoint.ChannelWrite, taskID string) error {
	f.writes = append(f.writes, recordedWrites{threadID: threadID, checkpointID: checkpointID, taskID: taskID, writes: writes})
	return nil
}

func newTestAgent(t *testing.T, llm LLM, cps Checkpointer) *Agent {
	t.Helper()
	registry, _ := newTestRegistry(t)
	a, err := New(llm, registry, cps, logging.New("error"), nil)
	require.NoError(t, err)
	return a.WithClock(fixedNow)
}

func transcript(t *testing.T, cps *fakeCheckpointer, threadID string) []Message {
	t.Helper()
	tuple := cps.tuples[threadID]
	require.NotNil(t, tuple)
	var msgs []Message
	require.NoError(t, json.Unmarshal(tuple.Checkpoint.Channels[channelMessages], &msgs))
	return msgs
}

func TestRespondPlainTurnPersistsTranscript(t *testing.T) {
	llm := &scriptedLLM{replies: []Reply{{Text: "Hello! How can I help you book an appointment?"}}}
	cps := newFakeCheckpointer()
	a := newTestAgent(t, llm, cps)

	reply, err := a.Respond(context.Background(), "u1", "hola")
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help you book an appointment?", reply)

	msgs := transcript(t, cps, "u1")
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hola", msgs[0].Content)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, 1, cps.tuples["u1"].Checkpoint.Step)
}

func TestRespondExecutesToolCallsAndRecordsWrites(t *testing.T) {
	llm := &scriptedLLM{replies: []Reply{
		{Calls: []ToolCall{{Name: "list_specialties", Args: json.RawMessage(`{}`)}}},
		{Text: "We cover nine specialties, which one do you need?"},
	}}
	cps := newFakeCheckpointer()
	a := newTestAgent(t, llm, cps)

	reply, err := a.Respond(context.Background(), "u1", "what specialties do you have?")
	require.NoError(t, err)
	assert.Contains(t, reply, "nine specialties")

	msgs := transcript(t, cps, "u1")
	require.Len(t, msgs, 3)
	assert.Equal(t, RoleTool, msgs[1].Role)
	assert.Equal(t, "list_specialties", msgs[1].ToolName)
	assert.NotEmpty(t, msgs[1].ToolResult)

	require.Len(t, cps.writes, 1)
	assert.Equal(t, "u1", cps.writes[0].threadID)
	assert.Equal(t, "iter-0", cps.writes[0].taskID)
	assert.Equal(t, cps.tuples["u1"].Checkpoint.ID, cps.writes[0].checkpointID,
		"mid-turn writes attach to the checkpoint that ends the turn")
	require.Len(t, cps.writes[0].writes, 1)
	assert.Equal(t, channelMessages, cps.writes[0].writes[0].Channel)
}

func TestRespondRestoresPriorTurns(t *testing.T) {
	llm := &scriptedLLM{replies: []Reply{{Text: "first"}, {Text: "second"}}}
	cps := newFakeCheckpointer()
	a := newTestAgent(t, llm, cps)

	_, err := a.Respond(context.Background(), "u1", "turn one")
	require.NoError(t, err)
	_, err = a.Respond(context.Background(), "u1", "turn two")
	require.NoError(t, err)

	require.Len(t, llm.seen, 2)
	second := llm.seen[1]
	require.Len(t, second, 3, "second turn sees both prior messages plus the new one")
	assert.Equal(t, "turn one", second[0].Content)
	assert.Equal(t, "first", second[1].Content)
	assert.Equal(t, "turn two", second[2].Content)
	assert.Equal(t, 2, cps.tuples["u1"].Checkpoint.Step)
}

func TestRespondThreadsAreIsolatedPerSubject(t *testing.T) {
	llm := &scriptedLLM{}
	cps := newFakeCheckpointer()
	a := newTestAgent(t, llm, cps)

	_, err := a.Respond(context.Background(), "u1", "hello from u1")
	require.NoError(t, err)
	_, err = a.Respond(context.Background(), "u2", "hello from u2")
	require.NoError(t, err)

	require.Len(t, llm.seen, 2)
	assert.Len(t, llm.seen[1], 1, "u2 must not see u1's transcript")
}

func TestRespondStateStoreFailuresAreMarked(t *testing.T) {
	cps := newFakeCheckpointer()
	cps.getErr = errors.New("dynamo is down")
	a := newTestAgent(t, &scriptedLLM{}, cps)

	_, err := a.Respond(context.Background(), "u1", "hola")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStateStore)
}

func TestRespondPersistFailureIsMarked(t *testing.T) {
	cps := newFakeCheckpointer()
	cps.putErr = errors.New("throttled")
	a := newTestAgent(t, &scriptedLLM{}, cps)

	_, err := a.Respond(context.Background(), "u1", "hola")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStateStore)
}

func TestRespondModelErrorIsNotAStateError(t *testing.T) {
	a := newTestAgent(t, &scriptedLLM{err: errors.New("quota exceeded")}, newFakeCheckpointer())

	_, err := a.Respond(context.Background(), "u1", "hola")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStateStore)
}

func TestRespondBoundsToolIterations(t *testing.T) {
	// A model that never stops calling tools must not loop forever.
	endless := make([]Reply, maxToolIterations+2)
	for i := range endless {
		endless[i] = Reply{Calls: []ToolCall{{Name: "current_date", Args: json.RawMessage(`{}`)}}}
	}
	a := newTestAgent(t, &scriptedLLM{replies: endless}, newFakeCheckpointer())

	_, err := a.Respond(context.Background(), "u1", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool iterations")
}

func TestRespondRequiresSubjectID(t *testing.T) {
	a := newTestAgent(t, &scriptedLLM{}, newFakeCheckpointer())
	_, err := a.Respond(context.Background(), "", "hola")
	assert.Error(t, err)
}
