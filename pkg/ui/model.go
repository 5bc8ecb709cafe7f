package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasklist/pkg/config"
	"tasklist/pkg/database"
	"tasklist/pkg/keymaps"
	"tasklist/pkg/store"
)

// InputMode represents the current input mode
type InputMode int

const (
	NormalMode InputMode = iota
	AddMode
	EditMode
	DeleteConfirmMode
	HelpViewMode
)

// Form fields in focus order
const (
	titleField = iota
	descField
	priorityField
	dueDateField
	fieldCount
)

const dateLayout = "2006-01-02"

// Model represents the application state
type Model struct {
	ctx           context.Context
	store         *store.Store
	table         table.Model
	help          help.Model
	items         []database.Task
	width, height int
	err           error
	status        string

	styles config.Styles
	keyMap keymaps.KeyMap

	taskFilter store.TaskFilter

	// Form state
	mode         InputMode
	titleInput   textinput.Model
	descInput    textinput.Model
	dueDateInput textinput.Model
	priority     database.Priority
	activeInput  int

	// Edit/delete state
	editingItem *database.Task
	editingDue  string // due date text as first shown in the edit form
}

// NewModel creates the UI over s and loads the stored tasks
func NewModel(ctx context.Context, s *store.Store, cfg config.Config) Model {
	styles := cfg.Styles

	columns := []table.Column{
		{Title: "", Width: 4},
		{Title: "", Width: 8},
		{Title: "", Width: 50},
		{Title: "", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	// Header stays invisible
	s2 := table.DefaultStyles()
	s2.Header = s2.Header.
		BorderStyle(lipgloss.HiddenBorder()).
		BorderBottom(false).
		Bold(false).
		Foreground(lipgloss.NoColor{})
	s2.Selected = s2.Selected.
		Foreground(lipgloss.Color(styles.SelectedTextColor)).
		Background(lipgloss.Color(styles.SelectedBgColor)).
		Bold(true)
	t.SetStyles(s2)

	titleInput := textinput.New()
	titleInput.Placeholder = "Title"
	titleInput.Width = 40

	descInput := textinput.New()
	descInput.Placeholder = "Description (optional)"
	descInput.Width = 40

	dueDateInput := textinput.New()
	dueDateInput.Placeholder = "Due Date (YYYY-MM-DD, optional)"
	dueDateInput.Width = 40

	m := Model{
		ctx:          ctx,
		store:        s,
		table:        t,
		help:         help.New(),
		styles:       styles,
		keyMap:       keymaps.BuildKeyMap(cfg.KeyMap),
		mode:         NormalMode,
		titleInput:   titleInput,
		descInput:    descInput,
		dueDateInput: dueDateInput,
		priority:     database.PriorityMedium,
		taskFilter:   store.AllTasksFilter,
	}

	m.store.LoadAll(ctx)
	m.refreshRows()

	return m
}

// Init initializes the model (required by Bubble Tea Model interface)
func (m Model) Init() tea.Cmd {
	return nil
}

// resetInputs clears all form inputs
func (m *Model) resetInputs() {
	m.titleInput.Reset()
	m.descInput.Reset()
	m.dueDateInput.Reset()
	m.priority = database.PriorityMedium
	m.editingDue = ""

	m.activeInput = titleField
	m.focusInput()
}
