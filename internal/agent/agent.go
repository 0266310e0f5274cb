package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fedeargo/agend-citas/internal/checkpoint"
	"github.com/fedeargo/agend-citas/internal/observability/metrics"
	"github.com/fedeargo/agend-citas/pkg/logging"
)

const (
	// channelMessages is the checkpoint channel holding the transcript.
	channelMessages = "messages"

	// maxToolIterations bounds the generate/execute loop within one turn.
	maxToolIterations = 8
)

// ErrStateStore marks failures of the conversation state backend, as opposed
// to model or tool failures the assistant can talk its way around.
var ErrStateStore = errors.New("agent: conversation state unavailable")

// Checkpointer is the slice of the checkpoint store the agent needs.
type Checkpointer interface {
	Get(ctx context.Context, threadID string) (*checkpoint.Tuple, error)
	Put(ctx context.Context, threadID string, cp *checkpoint.Checkpoint, md *checkpoint.Metadata) (checkpoint.Ref, error)
	PutWrites(ctx context.Context, threadID, namespace, checkpointID string, writes []checkpoint.ChannelWrite, taskID string) error
}

// Agent drives one conversation turn end to end.
type Agent struct {
	llm         LLM
	registry    *Registry
	checkpoints Checkpointer
	logger      *logging.Logger
	metrics     *metrics.AssistantMetrics
	now         func() time.Time
}

func New(llm LLM, registry *Registry, checkpoints Checkpointer, logger *logging.Logger, m *metrics.AssistantMetrics) (*Agent, error) {
	if llm == nil || registry == nil || checkpoints == nil {
		return nil, errors.New("agent: llm, registry and checkpointer are all required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Agent{
		llm:         llm,
		registry:    registry,
		checkpoints: checkpoints,
		logger:      logger,
		metrics:     m,
		now:         time.Now,
	}, nil
}

// WithClock swaps the timestamp source. For tests.
func (a *Agent) WithClock(now func() time.Time) *Agent {
	a.now = now
	return a
}

// Respond processes one user message on the subject's thread and returns the
// assistant's final text. The thread id is the subject id, so each user has
// exactly one running conversation.
func (a *Agent) Respond(ctx context.Context, subjectID, text string) (string, error) {
	if subjectID == "" {
		return "", errors.New("agent: subject id is required")
	}

	msgs, step, err := a.restore(ctx, subjectID)
	if err != nil {
		return "", err
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: text})

	// The checkpoint id is fixed up front so mid-turn writes attach to the
	// state they will end up in.
	checkpointID := uuid.New().String()
	system := systemPrompt(subjectID)
	specs := a.registry.Specs()

	final := ""
	for i := 0; i < maxToolIterations; i++ {
		reply, err := a.llm.Generate(ctx, system, msgs, specs)
		if err != nil {
			a.metrics.ObserveChatTurn("llm_error")
			return "", fmt.Errorf("agent: model generation failed: %w", err)
		}

		if len(reply.Calls) == 0 {
			final = reply.Text
			msgs = append(msgs, Message{Role: RoleAssistant, Content: reply.Text})
			break
		}

		writes := make([]checkpoint.ChannelWrite, 0, len(reply.Calls))
		for _, call := range reply.Calls {
			a.metrics.ObserveToolCall(call.Name)
			result, err := a.registry.Invoke(ctx, call.Name, call.Args)
			if err != nil {
				a.metrics.ObserveChatTurn("tool_error")
				return "", fmt.Errorf("agent: tool %s failed: %w", call.Name, err)
			}
			a.logger.Debug("tool executed", "thread_id", subjectID, "tool", call.Name)
			msgs = append(msgs, Message{
				Role:       RoleTool,
				ToolName:   call.Name,
				ToolArgs:   call.Args,
				ToolResult: result,
			})
			writes = append(writes, checkpoint.ChannelWrite{Channel: channelMessages, Value: result})
		}

		taskID := fmt.Sprintf("iter-%d", i)
		if err := a.checkpoints.PutWrites(ctx, subjectID, "", checkpointID, writes, taskID); err != nil {
			a.metrics.ObserveChatTurn("state_error")
			return "", fmt.Errorf("%w: record tool writes: %v", ErrStateStore, err)
		}
	}

	if final == "" {
		a.metrics.ObserveChatTurn("loop_exceeded")
		return "", fmt.Errorf("agent: no final answer after %d tool iterations", maxToolIterations)
	}

	if err := a.persist(ctx, subjectID, checkpointID, msgs, step+1); err != nil {
		a.metrics.ObserveChatTurn("state_error")
		return "", err
	}

	a.metrics.ObserveChatTurn("ok")
	return final, nil
}

// restore loads the thread's transcript and step counter. A thread with no
// checkpoint yet starts an empty conversation.
func (a *Agent) restore(ctx context.Context, threadID string) ([]Message, int, error) {
	start := a.now()
	tuple, err := a.checkpoints.Get(ctx, threadID)
	a.metrics.ObserveCheckpointLatency("get", a.now().Sub(start).Seconds())
	if err != nil {
		return nil, 0, fmt.Errorf("%w: load thread %s: %v", ErrStateStore, threadID, err)
	}
	if tuple == nil {
		return nil, 0, nil
	}

	var msgs []Message
	if raw, ok := tuple.Checkpoint.Channels[channelMessages]; ok {
		if err := json.Unmarshal(raw, &msgs); err != nil {
			return nil, 0, fmt.Errorf("%w: decode transcript for thread %s: %v", ErrStateStore, threadID, err)
		}
	}
	return msgs, tuple.Checkpoint.Step, nil
}

func (a *Agent) persist(ctx context.Context, threadID, checkpointID string, msgs []Message, step int) error {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("agent: encode transcript: %w", err)
	}

	cp := &checkpoint.Checkpoint{
		ID:        checkpointID,
		CreatedAt: a.now().UTC(),
		Step:      step,
		Channels:  map[string]json.RawMessage{channelMessages: raw},
	}
	md := &checkpoint.Metadata{
		Source: "loop",
		Step:   step,
		Extra:  map[string]string{"subject_id": threadID},
	}

	start := a.now()
	_, err = a.checkpoints.Put(ctx, threadID, cp, md)
	a.metrics.ObserveCheckpointLatency("put", a.now().Sub(start).Seconds())
	if err != nil {
		return fmt.Errorf("%w: persist thread %s: %v", ErrStateStore, threadID, err)
	}
	return nil
}
