package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasklist/pkg/database"
)

// View renders the UI based on the current mode
func (m Model) View() string {
	var sb strings.Builder

	switch m.mode {
	case NormalMode:
		sb.WriteString(m.header(" Tasks ", m.styles.AccentColor))
		sb.WriteString("\n\n")

		if len(m.items) == 0 {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.BorderColor)).Render("No tasks yet. Add one!"))
			sb.WriteString("\n")
		} else {
			sb.WriteString(m.table.View())
			sb.WriteString("\n")
		}

		info := fmt.Sprintf("Showing %d of %d tasks (%s)", len(m.items), m.store.Len(), m.taskFilter)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.NormalTextColor)).Render(info))
		sb.WriteString("\n")
		sb.WriteString(m.statusLine())
		sb.WriteString(m.help.ShortHelpView(m.keyMap.ShortHelp()))

	case AddMode:
		sb.WriteString(m.header(" Add New Task ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case EditMode:
		sb.WriteString(m.header(" Edit Task ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case DeleteConfirmMode:
		sb.WriteString(m.header(" Delete Task ", m.styles.ErrorColor))
		sb.WriteString("\n\n")

		if m.editingItem != nil {
			sb.WriteString("Are you sure you want to delete this task?\n\n")
			sb.WriteString(fmt.Sprintf("Title: %s\n", m.editingItem.Title))
			if m.editingItem.Description != "" {
				sb.WriteString(fmt.Sprintf("Description: %s\n", m.editingItem.Description))
			}
			sb.WriteString("\n")
			sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Press Y to confirm, N to cancel"))
		}

	case HelpViewMode:
		sb.WriteString(m.header(" Commands ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.help.FullHelpView(m.keyMap.FullHelp()))
		sb.WriteString("\n\nPress esc to return")
	}

	return sb.String()
}

func (m Model) header(text, bg string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Render(text)
}

func (m Model) statusLine() string {
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.ErrorColor)).Render("Error: "+m.err.Error()) + "\n"
	}
	if m.status != "" {
		return m.status + "\n"
	}
	return ""
}

// renderForm draws the add/edit form
func (m Model) renderForm() string {
	var sb strings.Builder
	label := lipgloss.NewStyle().Width(14)
	active := lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.AccentColor))

	field := func(idx int, name string) string {
		if m.activeInput == idx {
			return label.Render(active.Render("> " + name))
		}
		return label.Render("  " + name)
	}

	sb.WriteString(field(titleField, "Title") + m.titleInput.View() + "\n")
	sb.WriteString(field(descField, "Description") + m.descInput.View() + "\n")

	var prios []string
	for _, p := range database.Priorities {
		if p == m.priority.Normalize() {
			prios = append(prios, "["+priorityBadge(p, m.styles)+"]")
		} else {
			prios = append(prios, " "+p.String()+" ")
		}
	}
	sb.WriteString(field(priorityField, "Priority") + strings.Join(prios, " ") + "\n")
	sb.WriteString(field(dueDateField, "Due Date") + m.dueDateInput.View() + "\n\n")

	if m.err != nil {
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.ErrorColor)).Render("Error: " + m.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString("tab/shift+tab: move • left/right: priority • enter on due date: save • esc: cancel")

	return sb.String()
}
