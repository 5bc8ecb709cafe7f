package store

import (
	"sort"

	"tasklist/pkg/database"
)

// SortTasks returns tasks in display order: incomplete before completed,
// then High, Medium, Low. Ties keep their input order.
func SortTasks(tasks []database.Task) []database.Task {
	sorted := make([]database.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}

func less(a, b database.Task) bool {
	if a.IsCompleted != b.IsCompleted {
		return !a.IsCompleted
	}
	return a.Priority.Rank() < b.Priority.Rank()
}

// TaskFilter selects tasks by completion status
type TaskFilter int

const (
	AllTasksFilter    TaskFilter = iota // Show all tasks regardless of status
	DoneTasksFilter                     // Show only completed tasks
	UndoneTasksFilter                   // Show only uncompleted tasks
)

// String names the filter for status lines
func (f TaskFilter) String() string {
	switch f {
	case DoneTasksFilter:
		return "completed only"
	case UndoneTasksFilter:
		return "pending only"
	default:
		return "no filter"
	}
}

// FilterTasks keeps the tasks matching f, preserving order
func FilterTasks(tasks []database.Task, f TaskFilter) []database.Task {
	if f == AllTasksFilter {
		return tasks
	}
	var out []database.Task
	for _, t := range tasks {
		if t.IsCompleted == (f == DoneTasksFilter) {
			out = append(out, t)
		}
	}
	return out
}
