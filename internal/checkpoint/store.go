package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/fedeargo/agend-citas/pkg/logging"
)

const defaultListLimit = 100

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Tables holds the three collections the store writes to.
type Tables struct {
	Checkpoints string // current state, one item per thread
	History     string // append-only, one item per write
	Writes      string // pending writes, one item per (thread, ns, checkpoint, task)
}

// Store persists conversation checkpoints to DynamoDB. All methods are
// context-aware and safe for concurrent use; the store performs no retries,
// backend failures propagate to the caller.
type Store struct {
	client dynamoAPI
	tables Tables
	codec  Codec
	logger *logging.Logger
	now    func() time.Time
}

// NewStore builds a checkpoint store backed by the provided DynamoDB client.
func NewStore(client dynamoAPI, tables Tables, logger *logging.Logger) *Store {
	if client == nil {
		panic("checkpoint: dynamodb client cannot be nil")
	}
	if tables.Checkpoints == "" || tables.History == "" || tables.Writes == "" {
		panic("checkpoint: all table names are required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		client: client,
		tables: tables,
		codec:  NewCompatCodec(),
		logger: logger,
		now:    time.Now,
	}
}

// WithCodec swaps the payload codec. For tests and migrations.
func (s *Store) WithCodec(codec Codec) *Store {
	s.codec = codec
	return s
}

// WithClock swaps the timestamp source. For tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

type checkpointItem struct {
	ThreadID     string `dynamodbav:"thread_id"`
	CheckpointID string `dynamodbav:"checkpoint_id"`
	Timestamp    string `dynamodbav:"ts"`
	Checkpoint   string `dynamodbav:"checkpoint"`
	Metadata     string `dynamodbav:"metadata"`
}

type storedWrite struct {
	Channel string `dynamodbav:"channel"`
	Type    string `dynamodbav:"type"`
	Value   string `dynamodbav:"value"`
}

type writesItem struct {
	ThreadID     string        `dynamodbav:"thread_id"`
	WriteKey     string        `dynamodbav:"write_key"`
	Namespace    string        `dynamodbav:"checkpoint_ns"`
	CheckpointID string        `dynamodbav:"checkpoint_id"`
	TaskID       string        `dynamodbav:"task_id"`
	Timestamp    string        `dynamodbav:"ts"`
	Writes       []storedWrite `dynamodbav:"writes"`
}

// Get fetches the latest checkpoint for a thread. A missing thread is not an
/// error: the result is (nil, nil).
func (s *Store) Get(ctx context.Context, threadID string) (*Tuple, error) {
	if strings.TrimSpace(threadID) == "" {
		return nil, errors.New("checkpoint: thread id required")
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tables.Checkpoints),
		Key: map[string]types.AttributeValue{
			"thread_id": &types.AttributeValueMemberS{Value: threadID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("checkpoint: failed to fetch checkpoint: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item checkpointItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCheckpoint, err)
	}
	return s.decodeItem(item)
}

// Put serializes the checkpoint and metadata independently, stamps the write
// time, overwrites the thread's current-state item and appends a history
// item. The same policy applies no matter how the caller schedules the call.
func (s *Store) Put(ctx context.Context, threadID string, cp *Checkpoint, md *Metadata) (Ref, error) {
	if strings.TrimSpace(threadID) == "" {
		return Ref{}, errors.New("checkpoint: thread id required")
	}
	if cp == nil {
		return Ref{}, errors.New("checkpoint: checkpoint cannot be nil")
	}
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if md == nil {
		md = &Metadata{}
	}

	cpBytes, err := s.codec.Marshal(cp)
	if err != nil {
		return Ref{}, fmt.Errorf("checkpoint: failed to serialize checkpoint: %w", err)
	}
	mdBytes, err := s.codec.Marshal(md)
	if err != nil {
		return Ref{}, fmt.Errorf("checkpoint: failed to serialize metadata: %w", err)
	}

	item := checkpointItem{
		ThreadID:     threadID,
		CheckpointID: cp.ID,
		Timestamp:    s.now().UTC().Format(time.RFC3339Nano),
		Checkpoint:   encodePayload(cpBytes),
		Metadata:     encodePayload(mdBytes),
	}

	attrs, err := attributevalue.MarshalMap(item)
	if err != nil {
		return Ref{}, fmt.Errorf("checkpoint: failed to marshal item: %w", err)
	}

	// Current state first; a failure here leaves history untouched.
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tables.Checkpoints),
		Item:      attrs,
	}); err != nil {
		return Ref{}, fmt.Errorf("checkpoint: failed to persist checkpoint: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tables.History),
		Item:      attrs,
	}); err != nil {
		return Ref{}, fmt.Errorf("checkpoint: failed to append history: %w", err)
	}

	return Ref{ThreadID: threadID, CheckpointID: cp.ID}, nil
}

// List returns checkpoints most recent first. With a thread id the history
// table is queried for that thread; without one the most recent checkpoints
// across all threads are returned, up to the limit (default 100). Filter
// predicates beyond thread id fail with ErrNotSupported.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]*Tuple, error) {
	if len(opts.Filter) > 0 {
		return nil, ErrNotSupported
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var raw []map[string]types.AttributeValue
	if opts.ThreadID != "" {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tables.History),
			KeyConditionExpression: aws.String("thread_id = :thread"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":thread": &types.AttributeValueMemberS{Value: opts.ThreadID},
			},
			ScanIndexForward: aws.Bool(false),
			Limit:            aws.Int32(int32(limit)),
		})
		if err != nil {
			return nil, fmt.Errorf("checkpoint: failed to query history: %w", err)
		}
		raw = out.Items
	} else {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName: aws.String(s.tables.History),
		})
		if err != nil {
			return nil, fmt.Errorf("checkpoint: failed to scan history: %w", err)
		}
		raw = out.Items
	}

	var items []checkpointItem
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCheckpoint, err)
	}

	// The scan path has no server-side ordering; sort uniformly instead.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})
	if len(items) > limit {
		items = items[:limit]
	}

	tuples := make([]*Tuple, 0, len(items))
	for _, item := range items {
		tuple, err := s.decodeItem(item)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, tuple)
	}
	return tuples, nil
}

// PutWrites records intermediate channel writes produced mid-turn, one item
// per (thread, namespace, checkpoint, task) so concurrent tasks never
// clobber each other.
func (s *Store) PutWrites(ctx context.Context, threadID, namespace, checkpointID string, writes []ChannelWrite, taskID string) error {
	if strings.TrimSpace(threadID) == "" {
		return errors.New("checkpoint: thread id required")
	}
	if checkpointID == "" {
		return errors.New("checkpoint: checkpoint id required")
	}

	stored := make([]storedWrite, 0, len(writes))
	for _, w := range writes {
		valueBytes, err := s.codec.Marshal(w.Value)
		if err != nil {
			return fmt.Errorf("checkpoint: failed to serialize write for channel %s: %w", w.Channel, err)
		}
		stored = append(stored, storedWrite{
			Channel: w.Channel,
			Type:    "json",
			Value:   encodePayload(valueBytes),
		})
	}

	item := writesItem{
		ThreadID:     threadID,
		WriteKey:     fmt.Sprintf("%s#%s#%s", namespace, checkpointID, taskID),
		Namespace:    namespace,
		CheckpointID: checkpointID,
		TaskID:       taskID,
		Timestamp:    s.now().UTC().Format(time.RFC3339Nano),
		Writes:       stored,
	}

	attrs, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("checkpoint: failed to marshal writes item: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tables.Writes),
		Item:      attrs,
	}); err != nil {
		return fmt.Errorf("checkpoint: failed to persist writes: %w", err)
	}
	return nil
}

func (s *Store) decodeItem(item checkpointItem) (*Tuple, error) {
	cpBytes, err := decodePayload(item.Checkpoint)
	if err != nil {
		return nil, err
	}
	mdBytes, err := decodePayload(item.Metadata)
	if err != nil {
		return nil, err
	}

	var cp Checkpoint
	if err := s.codec.Unmarshal(cpBytes, &cp); err != nil {
		return nil, fmt.Errorf("%w: checkpoint for thread %s: %v", ErrCorruptCheckpoint, item.ThreadID, err)
	}
	var md Metadata
	if err := s.codec.Unmarshal(mdBytes, &md); err != nil {
		return nil, fmt.Errorf("%w: metadata for thread %s: %v", ErrCorruptCheckpoint, item.ThreadID, err)
	}

	return &Tuple{
		ThreadID:   item.ThreadID,
		WrittenAt:  item.Timestamp,
		Checkpoint: &cp,
		Metadata:   &md,
	}, nil
}
