package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidPriority is returned when a priority string is not High, Medium or Low
var ErrInvalidPriority = errors.New("invalid priority")

// Priority represents the urgency of a task
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every priority from most to least urgent
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority accepts the full name in any case or its first letter.
// An empty string yields Medium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	case "medium", "m":
		return PriorityMedium, nil
	case "low", "l":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// Rank orders priorities for sorting: High 0, Medium 1, Low 2.
// The zero value ranks as Medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Next cycles High -> Medium -> Low -> High
func (p Priority) Next() Priority {
	return Priorities[(p.Rank()+1)%len(Priorities)]
}

// Prev cycles in the opposite direction of Next
func (p Priority) Prev() Priority {
	return Priorities[(p.Rank()+len(Priorities)-1)%len(Priorities)]
}

// Normalize maps the zero value to Medium
func (p Priority) Normalize() Priority {
	if p == "" {
		return PriorityMedium
	}
	return p
}

func (p Priority) String() string {
	return string(p.Normalize())
}

// MarshalJSON always writes one of the three canonical names
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON rejects anything but the three canonical names
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return p.set(s)
}

// UnmarshalYAML mirrors UnmarshalJSON for yaml imports
func (p *Priority) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return p.set(s)
}

func (p *Priority) set(s string) error {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		*p = Priority(s)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// Task represents a single to-do item
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	IsCompleted bool       `json:"isCompleted" yaml:"isCompleted"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	DueDate     *time.Time `json:"dueDate" yaml:"dueDate"`
}

// HasDueDate reports whether the task carries a due date
func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}

// Equal compares tasks field by field, due dates by instant
func (t Task) Equal(o Task) bool {
	if t.ID != o.ID || t.Title != o.Title || t.Description != o.Description ||
		t.IsCompleted != o.IsCompleted || t.Priority.Normalize() != o.Priority.Normalize() {
		return false
	}
	if t.DueDate == nil || o.DueDate == nil {
		return t.DueDate == nil && o.DueDate == nil
	}
	return t.DueDate.Equal(*o.DueDate)
}
