package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tasklist/pkg/utils"
)

const (
	// DefaultStorageKey is the key the whole task collection is stored under
	DefaultStorageKey = "@todo_tasks"
	// DefaultTimeout bounds every storage call made by the gateway
	DefaultTimeout = 5 * time.Second
)

// Gateway loads and saves the entire task collection as one JSON blob.
// It never diffs: every save replaces the stored collection wholesale.
type Gateway struct {
	kv      KeyValueStore
	key     string
	timeout time.Duration
}

// NewGateway returns a gateway over kv. Empty key and non-positive timeout
// fall back to the defaults.
func NewGateway(kv KeyValueStore, key string, timeout time.Duration) *Gateway {
	if key == "" {
		key = DefaultStorageKey
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{kv: kv, key: key, timeout: timeout}
}

// Load returns the stored collection. A missing blob is an empty collection;
// unreadable or corrupt storage is logged and also treated as empty.
func (g *Gateway) Load(ctx context.Context) []Task {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	raw, found, err := g.kv.GetItem(ctx, g.key)
	if err != nil {
		utils.Log("Failed to load tasks: %v", err)
		return []Task{}
	}
	if !found {
		return []Task{}
	}

	tasks, err := DecodeTasks([]byte(raw))
	if err != nil {
		utils.Log("Failed to load tasks: %v", err)
		return []Task{}
	}

	utils.Log("Loaded %d tasks from storage", len(tasks))
	return tasks
}

// Save serializes tasks and overwrites the stored blob
func (g *Gateway) Save(ctx context.Context, tasks []Task) error {
	data, err := EncodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.kv.SetItem(ctx, g.key, string(data)); err != nil {
		utils.Log("Failed to save tasks: %v", err)
		return fmt.Errorf("failed to save tasks: %w", err)
	}

	utils.Log("Saved %d tasks to storage", len(tasks))
	return nil
}

// EncodeTasks renders the collection in the storage format
func EncodeTasks(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.Priority = t.Priority.Normalize()
		out[i] = t
	}
	return json.Marshal(out)
}

// DecodeTasks parses the storage format
func DecodeTasks(data []byte) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse tasks: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	for i := range tasks {
		tasks[i].Priority = tasks[i].Priority.Normalize()
	}
	return tasks, nil
}
