package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/pkg/store"
	"tasklist/pkg/utils"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case NormalMode:
			switch {
			case key.Matches(msg, m.keyMap.ShowHelp):
				m.mode = HelpViewMode

			case key.Matches(msg, m.keyMap.QuitApp):
				return m, tea.Quit

			case key.Matches(msg, m.keyMap.ToggleStatus):
				if t, ok := m.selectedTask(); ok {
					m.setResult(m.store.ToggleCompletion(m.ctx, t.ID), "Task updated")
					m.refreshRows()
				}

			case key.Matches(msg, m.keyMap.AddTask):
				m.mode = AddMode
				m.err = nil
				m.resetInputs()

			case key.Matches(msg, m.keyMap.EditTask):
				if t, ok := m.selectedTask(); ok {
					m.err = nil
					m.startEdit(t)
				}

			case key.Matches(msg, m.keyMap.DeleteTask):
				if t, ok := m.selectedTask(); ok {
					m.mode = DeleteConfirmMode
					m.editingItem = &t
				}

			case key.Matches(msg, m.keyMap.ShowDoneTasks):
				if m.taskFilter == store.DoneTasksFilter {
					m.taskFilter = store.AllTasksFilter
				} else {
					m.taskFilter = store.DoneTasksFilter
				}
				m.refreshRows()

			case key.Matches(msg, m.keyMap.ShowUndoneTasks):
				if m.taskFilter == store.UndoneTasksFilter {
					m.taskFilter = store.AllTasksFilter
				} else {
					m.taskFilter = store.UndoneTasksFilter
				}
				m.refreshRows()

			case key.Matches(msg, m.keyMap.Reload):
				m.reload()
				m.status = "Reloaded"
			}

		case AddMode, EditMode:
			switch msg.String() {
			case "esc":
				m.mode = NormalMode
				m.err = nil
				m.resetInputs()
				m.editingItem = nil
				return m, nil

			case "tab", "down":
				m.focusNextInput()
				return m, nil

			case "shift+tab", "up":
				m.focusPreviousInput()
				return m, nil

			case "enter":
				if m.activeInput == dueDateField {
					m.submitForm()
				} else {
					m.focusNextInput()
				}
				return m, nil

			case "left", "right":
				if m.activeInput == priorityField {
					if msg.String() == "left" {
						m.priority = m.priority.Prev()
					} else {
						m.priority = m.priority.Next()
					}
					return m, nil
				}
			}

			// Handle input updates
			switch m.activeInput {
			case titleField:
				m.titleInput, cmd = m.titleInput.Update(msg)
				cmds = append(cmds, cmd)
			case descField:
				m.descInput, cmd = m.descInput.Update(msg)
				cmds = append(cmds, cmd)
			case dueDateField:
				m.dueDateInput, cmd = m.dueDateInput.Update(msg)
				cmds = append(cmds, cmd)
			}

		case DeleteConfirmMode:
			switch msg.String() {
			case "y", "Y":
				if m.editingItem != nil {
					utils.Log("Deleting task ID: %s", m.editingItem.ID)
					m.setResult(m.store.Remove(m.ctx, m.editingItem.ID), "Task deleted")
					m.refreshRows()
				}
				m.mode = NormalMode
				m.editingItem = nil

			case "n", "N", "esc":
				m.mode = NormalMode
				m.editingItem = nil
			}
			return m, nil

		case HelpViewMode:
			if msg.String() == "esc" || key.Matches(msg, m.keyMap.ShowHelp) {
				m.mode = NormalMode
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(msg.Height - 6)
	}

	// Only update table in normal mode
	if m.mode == NormalMode {
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}
