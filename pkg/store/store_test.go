package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"tasklist/pkg/database"
)

// memoryKV is an in-memory database.KeyValueStore
type memoryKV struct {
	mu     sync.Mutex
	items  map[string]string
	setErr error
	writes int
}

func newMemoryKV() *memoryKV {
	return &memoryKV{items: map[string]string{}}
}

func (m *memoryKV) GetItem(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memoryKV) SetItem(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.writes++
	m.items[key] = value
	return nil
}

func (m *memoryKV) RemoveItem(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *memoryKV) {
	t.Helper()
	kv := newMemoryKV()
	return New(database.NewGateway(kv, "", time.Second), opts...), kv
}

// reopen builds a second store over the same storage, as after a restart
func reopen(kv *memoryKV) *Store {
	return New(database.NewGateway(kv, "", time.Second))
}

func titles(tasks []database.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func assertTitles(t *testing.T, got []database.Task, want ...string) {
	t.Helper()
	g := titles(got)
	if fmt.Sprint(g) != fmt.Sprint(want) {
		t.Errorf("Expected order %v, got %v", want, g)
	}
}

func TestCreateThenLoadAllRoundTrip(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	created, err := s.Create(ctx, NewTask{
		Title:       "  File taxes ",
		Description: "before the deadline",
		Priority:    database.PriorityHigh,
		DueDate:     &due,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == "" {
		t.Errorf("Expected an id to be assigned")
	}
	if created.Title != "File taxes" {
		t.Errorf("Expected trimmed title, got %q", created.Title)
	}
	if created.IsCompleted {
		t.Errorf("Expected new task to be incomplete")
	}

	loaded := reopen(kv).LoadAll(ctx)
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 task after reload, got %d", len(loaded))
	}
	if !loaded[0].Equal(created) {
		t.Errorf("Reloaded task differs: %+v != %+v", loaded[0], created)
	}
}

func TestCreateDefaultsToMedium(t *testing.T) {
	s, _ := newTestStore(t)

	task, err := s.Create(context.Background(), NewTask{Title: "Something"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if task.Priority != database.PriorityMedium {
		t.Errorf("Expected Medium, got %s", task.Priority)
	}
	if task.DueDate != nil {
		t.Errorf("Expected no due date")
	}
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, NewTask{Title: "Keep"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	writes := kv.writes

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := s.Create(ctx, NewTask{Title: title, Priority: database.PriorityHigh})
		if !errors.Is(err, ErrEmptyTitle) {
			t.Errorf("Create(%q): expected ErrEmptyTitle, got %v", title, err)
		}
	}

	if s.Len() != 1 {
		t.Errorf("Expected collection unchanged, got %d tasks", s.Len())
	}
	if kv.writes != writes {
		t.Errorf("Expected no storage writes for rejected input")
	}
}

func TestPriorityIsCanonicalizedBeforeSaving(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, NewTask{Title: "Buy milk", Priority: database.PriorityLow}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	rent, err := s.Create(ctx, NewTask{Title: "Pay rent", Priority: database.Priority("high")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rent.Priority != database.PriorityHigh {
		t.Errorf("Expected High, got %s", rent.Priority)
	}

	rent.Priority = database.Priority("LOW")
	if err := s.Update(ctx, rent); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	loaded := reopen(kv).LoadAll(ctx)
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 tasks after restart, got %d", len(loaded))
	}
	for _, task := range loaded {
		if task.Priority != database.PriorityLow {
			t.Errorf("Expected %q to be Low, got %q", task.Title, task.Priority)
		}
	}
}

func TestInvalidPriorityIsRejected(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	keep, err := s.Create(ctx, NewTask{Title: "Keep"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	writes := kv.writes

	if _, err := s.Create(ctx, NewTask{Title: "Pay rent", Priority: database.Priority("Urgent")}); !errors.Is(err, database.ErrInvalidPriority) {
		t.Errorf("Expected ErrInvalidPriority from Create, got %v", err)
	}
	keep.Priority = database.Priority("Urgent")
	if err := s.Update(ctx, keep); !errors.Is(err, database.ErrInvalidPriority) {
		t.Errorf("Expected ErrInvalidPriority from Update, got %v", err)
	}

	if kv.writes != writes {
		t.Errorf("Expected no storage writes, got %d", kv.writes-writes)
	}
	loaded := reopen(kv).LoadAll(ctx)
	if len(loaded) != 1 || loaded[0].Priority != database.PriorityMedium {
		t.Errorf("Expected the stored task untouched, got %+v", loaded)
	}
}

func TestScenarioBuyMilkPayRent(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, NewTask{Title: "Buy milk", Priority: database.PriorityLow}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	rent, err := s.Create(ctx, NewTask{Title: "Pay rent", Priority: database.PriorityHigh})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	assertTitles(t, reopen(kv).LoadAll(ctx), "Pay rent", "Buy milk")

	if err := s.ToggleCompletion(ctx, rent.ID); err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}
	assertTitles(t, reopen(kv).LoadAll(ctx), "Buy milk", "Pay rent")

	// Toggling back restores the original order
	if err := s.ToggleCompletion(ctx, rent.ID); err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}
	assertTitles(t, s.Tasks(), "Pay rent", "Buy milk")
}

func TestToggleUnknownIDIsNoop(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	s.Create(ctx, NewTask{Title: "a"})
	writes := kv.writes

	if err := s.ToggleCompletion(ctx, "missing"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if kv.writes != writes {
		t.Errorf("Expected no write for unknown id")
	}
}

func TestUpdateReplacesWholesale(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	due := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	orig, _ := s.Create(ctx, NewTask{Title: "Draft", Description: "old", DueDate: &due})

	edited := database.Task{ID: orig.ID, Title: "Final", Priority: database.PriorityLow, IsCompleted: true}
	if err := s.Update(ctx, edited); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if s.Len() != 1 {
		t.Fatalf("Expected 1 task, got %d", s.Len())
	}
	got := reopen(kv).LoadAll(ctx)
	if !got[0].Equal(edited) {
		t.Errorf("Expected wholesale replacement %+v, got %+v", edited, got[0])
	}
}

func TestUpdateUnknownIDInserts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.Create(ctx, NewTask{Title: "existing"})
	before := s.Len()

	if err := s.Update(ctx, database.Task{ID: "imported-1", Title: "new one"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if s.Len() != before+1 {
		t.Errorf("Expected size %d, got %d", before+1, s.Len())
	}
	got, ok := s.Get("imported-1")
	if !ok {
		t.Fatalf("Expected supplied id to be preserved")
	}
	if got.Priority != database.PriorityMedium {
		t.Errorf("Expected default priority Medium, got %s", got.Priority)
	}
}

func TestUpdateWithoutIDGetsFreshID(t *testing.T) {
	s, _ := newTestStore(t, WithIDFunc(func() string { return "generated" }))

	if err := s.Update(context.Background(), database.Task{Title: "no id"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, ok := s.Get("generated"); !ok {
		t.Errorf("Expected generated id to be assigned")
	}
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	orig, _ := s.Create(ctx, NewTask{Title: "Keep me"})

	err := s.Update(ctx, database.Task{ID: orig.ID, Title: "  "})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("Expected ErrEmptyTitle, got %v", err)
	}
	if got, _ := s.Get(orig.ID); got.Title != "Keep me" {
		t.Errorf("Expected title unchanged, got %q", got.Title)
	}
}

func TestRemove(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	a, _ := s.Create(ctx, NewTask{Title: "a", Priority: database.PriorityHigh})
	s.Create(ctx, NewTask{Title: "b"})
	s.Create(ctx, NewTask{Title: "c", Priority: database.PriorityLow})

	if err := s.Remove(ctx, a.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	assertTitles(t, s.Tasks(), "b", "c")
	assertTitles(t, reopen(kv).LoadAll(ctx), "b", "c")
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	s.Create(ctx, NewTask{Title: "a"})
	s.Create(ctx, NewTask{Title: "b"})
	before := s.Tasks()
	writes := kv.writes

	if err := s.Remove(ctx, "nope"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	after := s.Tasks()
	if len(after) != len(before) {
		t.Fatalf("Expected collection unchanged")
	}
	for i := range before {
		if !before[i].Equal(after[i]) {
			t.Errorf("Task %d changed", i)
		}
	}
	if kv.writes != writes {
		t.Errorf("Expected no write for unknown id")
	}
}

func TestWriteFailureKeepsMemory(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	kv.setErr = errors.New("quota exceeded")

	task, err := s.Create(ctx, NewTask{Title: "Unsaved"})
	if !errors.Is(err, ErrNotPersisted) {
		t.Fatalf("Expected ErrNotPersisted, got %v", err)
	}
	if task.ID == "" {
		t.Errorf("Expected the created task to be returned")
	}
	if s.Len() != 1 {
		t.Errorf("Expected in-memory change to be kept")
	}

	// Storage and memory diverge until the next successful write
	if n := len(reopen(kv).LoadAll(ctx)); n != 0 {
		t.Errorf("Expected nothing durable, got %d tasks", n)
	}

	kv.setErr = nil
	if err := s.ToggleCompletion(ctx, task.ID); err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}
	if n := len(reopen(kv).LoadAll(ctx)); n != 1 {
		t.Errorf("Expected next successful write to persist everything, got %d tasks", n)
	}
}

func TestUniqueIDRedrawsOnCollision(t *testing.T) {
	ids := []string{"same", "same", "", "other"}
	next := 0
	s, _ := newTestStore(t, WithIDFunc(func() string {
		id := ids[next]
		next++
		return id
	}))
	ctx := context.Background()

	a, _ := s.Create(ctx, NewTask{Title: "a"})
	b, _ := s.Create(ctx, NewTask{Title: "b"})

	if a.ID != "same" || b.ID != "other" {
		t.Errorf("Expected ids same/other, got %s/%s", a.ID, b.ID)
	}
}

func TestRapidCreatesGetDistinctIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		task, err := s.Create(ctx, NewTask{Title: fmt.Sprintf("t%d", i)})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if seen[task.ID] {
			t.Fatalf("Duplicate id %s", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestConcurrentCreatesDoNotLoseUpdates(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.Create(ctx, NewTask{Title: fmt.Sprintf("task %d", i)}); err != nil {
				t.Errorf("Create failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if n := len(reopen(kv).LoadAll(ctx)); n != 50 {
		t.Errorf("Expected 50 persisted tasks, got %d", n)
	}
}

func TestReturnedTasksAreCopies(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	due := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	created, _ := s.Create(ctx, NewTask{Title: "x", DueDate: &due})

	tasks := s.Tasks()
	tasks[0].Title = "mutated"
	*tasks[0].DueDate = due.AddDate(1, 0, 0)
	*created.DueDate = due.AddDate(2, 0, 0)

	got, _ := s.Get(created.ID)
	if got.Title != "x" || !got.DueDate.Equal(due) {
		t.Errorf("Expected store state to be unaffected, got %+v", got)
	}
}
