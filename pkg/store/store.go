// Package store owns the in-memory task collection for a session: its CRUD
// operations, id assignment and display ordering. Every mutation is written
// through to the persistence gateway immediately.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tasklist/pkg/database"
	"tasklist/pkg/utils"
)

var (
	// ErrEmptyTitle is returned when a task title is empty after trimming
	ErrEmptyTitle = errors.New("task title must not be empty")
	// ErrNotPersisted wraps storage write failures. The in-memory change has
	// already been applied and is not rolled back.
	ErrNotPersisted = errors.New("change not persisted")
)

// Persister is the durable side of the store
type Persister interface {
	Load(ctx context.Context) []database.Task
	Save(ctx context.Context, tasks []database.Task) error
}

// NewTask holds the user-supplied fields of a task being created
type NewTask struct {
	Title       string
	Description string
	Priority    database.Priority
	DueDate     *time.Time
}

// Store is the authoritative task collection for the active session
type Store struct {
	mu      sync.Mutex
	tasks   []database.Task
	persist Persister
	newID   func() string
}

// Option configures a Store
type Option func(*Store)

// WithIDFunc replaces the id generator
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// New returns an empty store backed by p. Call LoadAll to read stored tasks.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		tasks:   []database.Task{},
		persist: p,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll replaces the in-memory collection with the stored one and returns
// it in display order
func (s *Store) LoadAll(ctx context.Context) []database.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = SortTasks(s.persist.Load(ctx))
	return s.snapshot()
}

// Tasks returns the current collection in display order
func (s *Store) Tasks() []database.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get looks a task up by id
func (s *Store) Get(id string) (database.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		t := s.tasks[i]
		t.DueDate = utcCopy(t.DueDate)
		return t, true
	}
	return database.Task{}, false
}

// Len returns the number of tasks held
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Create validates and appends a new incomplete task. Priority names are
// matched case-insensitively; anything else is ErrInvalidPriority.
func (s *Store) Create(ctx context.Context, nt NewTask) (database.Task, error) {
	title := strings.TrimSpace(nt.Title)
	if title == "" {
		return database.Task{}, ErrEmptyTitle
	}
	priority, err := database.ParsePriority(string(nt.Priority))
	if err != nil {
		return database.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := database.Task{
		ID:          s.uniqueID(),
		Title:       title,
		Description: strings.TrimSpace(nt.Description),
		IsCompleted: false,
		Priority:    priority,
		DueDate:     utcCopy(nt.DueDate),
	}
	s.tasks = SortTasks(append(s.tasks, task))
	utils.Log("Created task %s", task.ID)

	task.DueDate = utcCopy(task.DueDate)
	return task, s.save(ctx)
}

// Update replaces the task with the same id, or inserts it if none exists.
// A task without an id gets a fresh one.
func (s *Store) Update(ctx context.Context, task database.Task) error {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return ErrEmptyTitle
	}
	task.Description = strings.TrimSpace(task.Description)
	priority, err := database.ParsePriority(string(task.Priority))
	if err != nil {
		return err
	}
	task.Priority = priority
	task.DueDate = utcCopy(task.DueDate)

	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		task.ID = s.uniqueID()
	}

	if i := s.indexOf(task.ID); i >= 0 {
		s.tasks[i] = task
		utils.Log("Updated task %s", task.ID)
	} else {
		s.tasks = append(s.tasks, task)
		utils.Log("Inserted task %s", task.ID)
	}
	s.tasks = SortTasks(s.tasks)

	return s.save(ctx)
}

// ToggleCompletion flips the completion flag. Unknown ids are ignored.
func (s *Store) ToggleCompletion(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.tasks[i].IsCompleted = !s.tasks[i].IsCompleted
	utils.Log("Toggled task %s to completed=%t", id, s.tasks[i].IsCompleted)
	s.tasks = SortTasks(s.tasks)

	return s.save(ctx)
}

// Remove deletes the task with id. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	// Survivors keep their relative order, so no re-sort
	kept := make([]database.Task, 0, len(s.tasks)-1)
	kept = append(kept, s.tasks[:i]...)
	kept = append(kept, s.tasks[i+1:]...)
	s.tasks = kept
	utils.Log("Removed task %s", id)

	return s.save(ctx)
}

// save must be called with mu held
func (s *Store) save(ctx context.Context) error {
	if err := s.persist.Save(ctx, s.snapshot()); err != nil {
		utils.Log("Keeping unsaved changes in memory: %v", err)
		return fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return nil
}

func (s *Store) snapshot() []database.Task {
	out := make([]database.Task, len(s.tasks))
	for i, t := range s.tasks {
		t.DueDate = utcCopy(t.DueDate)
		out[i] = t
	}
	return out
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueID draws ids until one is not already held
func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id
		}
	}
}

func utcCopy(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
