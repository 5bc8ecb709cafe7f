package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"tasklist/pkg/database"
	"tasklist/pkg/store"
)

// DateLayout is the due date format accepted on the command line
const DateLayout = "2006-01-02"

// ParseDate parses an optional YYYY-MM-DD date in local time
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(DateLayout, dateStr, time.Local)
	if err != nil {
		return nil, fmt.Errorf("error parsing date %q: use YYYY-MM-DD", dateStr)
	}
	return &d, nil
}

// HandleAddTask processes the add command
func HandleAddTask(ctx context.Context, s *store.Store, w io.Writer, title, description, priority, dateStr string) error {
	p, err := database.ParsePriority(priority)
	if err != nil {
		return err
	}
	dueDate, err := ParseDate(dateStr)
	if err != nil {
		return err
	}

	task, err := s.Create(ctx, store.NewTask{
		Title:       title,
		Description: description,
		Priority:    p,
		DueDate:     dueDate,
	})
	if err != nil && task.ID == "" {
		return err
	}

	fmt.Fprintf(w, "Added task %s: %s\n", task.ID, task.Title)
	return err
}
