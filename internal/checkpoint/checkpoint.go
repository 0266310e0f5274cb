// Package checkpoint persists conversation-state snapshots to DynamoDB,
// keyed by thread. Every Put overwrites the thread's current-state item and
// appends to an immutable history table, so the latest state is a single
// read while replay and recency listings stay available.
package checkpoint

import (
	"encoding/json"
	"time"
)

// Checkpoint is a snapshot of an orchestrator's running state at one point
// in a conversation. Channel payloads are opaque to the store.
type Checkpoint struct {
	ID        string                     `json:"id"`
	CreatedAt time.Time                  `json:"created_at"`
	Step      int                        `json:"step"`
	Channels  map[string]json.RawMessage `json:"channels"`
}

// Metadata describes how a checkpoint came to be.
type Metadata struct {
	Source string            `json:"source"`
	Step   int               `json:"step"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// Tuple bundles a stored checkpoint with its thread and write-time stamp.
type Tuple struct {
	ThreadID   string
	WrittenAt  string
	Checkpoint *Checkpoint
	Metadata   *Metadata
}

// Ref identifies a stored checkpoint.
type Ref struct {
	ThreadID     string
	CheckpointID string
}

// ChannelWrite is one intermediate (channel, value) pair produced mid-turn,
// before it is folded into a checkpoint.
type ChannelWrite struct {
	Channel string          `json:"channel"`
	Value   json.RawMessage `json:"value"`
}

// ListOptions narrows a List call. Filter is reserved: any non-empty filter
// fails with ErrNotSupported.
type ListOptions struct {
	ThreadID string
	Limit    int
	Filter   map[string]any
}
