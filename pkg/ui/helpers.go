package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"tasklist/pkg/config"
	"tasklist/pkg/database"
	"tasklist/pkg/store"
	"tasklist/pkg/utils"
)

// refreshRows rebuilds the table from the store's ordered view
func (m *Model) refreshRows() {
	m.items = store.FilterTasks(m.store.Tasks(), m.taskFilter)

	rows := make([]table.Row, 0, len(m.items))
	for _, item := range m.items {
		rows = append(rows, taskRow(item, m.styles))
	}
	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// reload re-reads the collection from storage
func (m *Model) reload() {
	m.store.LoadAll(m.ctx)
	m.refreshRows()
}

// selectedTask returns the task under the cursor
func (m *Model) selectedTask() (database.Task, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return database.Task{}, false
	}
	return m.items[idx], true
}

// taskRow renders one task as a table row
func taskRow(t database.Task, styles config.Styles) table.Row {
	status := "[ ]"
	if t.IsCompleted {
		status = "[x]"
	}

	due := ""
	if t.HasDueDate() {
		due = t.DueDate.Local().Format(dateLayout)
	}

	title := t.Title
	if t.IsCompleted {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.DoneColor)).Strikethrough(true).Render(title)
	}

	return table.Row{status, priorityBadge(t.Priority, styles), title, due}
}

// priorityBadge colors the priority name
func priorityBadge(p database.Priority, styles config.Styles) string {
	color := styles.MediumColor
	switch p.Normalize() {
	case database.PriorityHigh:
		color = styles.HighColor
	case database.PriorityLow:
		color = styles.LowColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(p.String())
}

// focusNextInput cycles through the form inputs
func (m *Model) focusNextInput() {
	m.activeInput = (m.activeInput + 1) % fieldCount
	m.focusInput()
}

// focusPreviousInput cycles through the form inputs
func (m *Model) focusPreviousInput() {
	m.activeInput = (m.activeInput + fieldCount - 1) % fieldCount
	m.focusInput()
}

func (m *Model) focusInput() {
	m.titleInput.Blur()
	m.descInput.Blur()
	m.dueDateInput.Blur()

	switch m.activeInput {
	case titleField:
		m.titleInput.Focus()
	case descField:
		m.descInput.Focus()
	case dueDateField:
		m.dueDateInput.Focus()
	}
}

// startEdit fills the form from t
func (m *Model) startEdit(t database.Task) {
	m.mode = EditMode
	m.editingItem = &t
	m.resetInputs()

	m.titleInput.SetValue(t.Title)
	m.descInput.SetValue(t.Description)
	m.priority = t.Priority.Normalize()
	if t.HasDueDate() {
		m.editingDue = t.DueDate.Local().Format(dateLayout)
		m.dueDateInput.SetValue(m.editingDue)
	}
}

// parseDueDate reads the optional date field
func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date format: use YYYY-MM-DD")
	}
	return &d, nil
}

// submitForm saves the form. On a validation error the form stays open.
func (m *Model) submitForm() {
	dueDate, err := parseDueDate(m.dueDateInput.Value())
	if err != nil {
		m.err = err
		return
	}

	switch m.mode {
	case AddMode:
		_, err = m.store.Create(m.ctx, store.NewTask{
			Title:       m.titleInput.Value(),
			Description: m.descInput.Value(),
			Priority:    m.priority,
			DueDate:     dueDate,
		})

	case EditMode:
		if m.editingItem == nil {
			return
		}
		task := *m.editingItem
		task.Title = m.titleInput.Value()
		task.Description = m.descInput.Value()
		task.Priority = m.priority
		// An untouched date field keeps the stored time of day
		if !task.HasDueDate() || strings.TrimSpace(m.dueDateInput.Value()) != m.editingDue {
			task.DueDate = dueDate
		}
		err = m.store.Update(m.ctx, task)
	}

	if errors.Is(err, store.ErrEmptyTitle) {
		m.err = err
		return
	}
	m.setResult(err, "Task saved")

	m.mode = NormalMode
	m.resetInputs()
	m.editingItem = nil
	m.refreshRows()
}

// setResult reports the outcome of a store call in the status line
func (m *Model) setResult(err error, ok string) {
	if err != nil {
		utils.Log("UI operation failed: %v", err)
		m.err = err
		m.status = ""
		return
	}
	m.err = nil
	m.status = ok
}
