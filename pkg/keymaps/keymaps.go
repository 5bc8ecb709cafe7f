package keymaps

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyDefinition struct {
	DefaultKey string
	Help       string
}

var KeyDefinitions = map[string]KeyDefinition{
	"ShowHelp":        {"ctrl+b,?", "show/hide commands"},
	"QuitApp":         {"q,ctrl+c", "quit"},
	"ToggleStatus":    {"space,x", "toggle completion"},
	"AddTask":         {"a", "add task"},
	"EditTask":        {"e,enter", "edit task"},
	"DeleteTask":      {"d", "delete task"},
	"ShowDoneTasks":   {"ctrl+d", "show only completed tasks"},
	"ShowUndoneTasks": {"ctrl+u", "show only pending tasks"},
	"Reload":          {"r", "reload tasks from storage"},
}

type KeyMap struct {
	ShowHelp        key.Binding
	QuitApp         key.Binding
	ToggleStatus    key.Binding
	AddTask         key.Binding
	EditTask        key.Binding
	DeleteTask      key.Binding
	ShowDoneTasks   key.Binding
	ShowUndoneTasks key.Binding
	Reload          key.Binding
}

// bindings maps each action name to its field in km
func (km *KeyMap) bindings() map[string]*key.Binding {
	return map[string]*key.Binding{
		"ShowHelp":        &km.ShowHelp,
		"QuitApp":         &km.QuitApp,
		"ToggleStatus":    &km.ToggleStatus,
		"AddTask":         &km.AddTask,
		"EditTask":        &km.EditTask,
		"DeleteTask":      &km.DeleteTask,
		"ShowDoneTasks":   &km.ShowDoneTasks,
		"ShowUndoneTasks": &km.ShowUndoneTasks,
		"Reload":          &km.Reload,
	}
}

// BuildKeyMap applies configured overrides on top of the defaults.
// Action names match case-insensitively since viper lowercases map keys.
func BuildKeyMap(configOverrides map[string]string) KeyMap {
	overrides := make(map[string]string, len(configOverrides))
	for action, keys := range configOverrides {
		overrides[strings.ToLower(action)] = keys
	}

	km := KeyMap{}
	for action, binding := range km.bindings() {
		def := KeyDefinitions[action]
		keyStr := def.DefaultKey
		if override, exists := overrides[strings.ToLower(action)]; exists && override != "" {
			keyStr = override
		}
		*binding = parseKeyBinding(keyStr, def.DefaultKey, def.Help)
	}
	return km
}

// ShortHelp lists the bindings shown in the footer
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.AddTask, km.ToggleStatus, km.EditTask, km.DeleteTask, km.ShowHelp, km.QuitApp}
}

// FullHelp lists every binding for the help view
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.AddTask, km.EditTask, km.DeleteTask, km.ToggleStatus},
		{km.ShowDoneTasks, km.ShowUndoneTasks, km.Reload},
		{km.ShowHelp, km.QuitApp},
	}
}

func parseKeyBinding(keyStr, defaultKey, helpText string) key.Binding {
	if keyStr == "" {
		keyStr = defaultKey
	}

	// Handle multiple keys separated by commas
	keys := strings.Split(keyStr, ",")
	for i, k := range keys {
		keys[i] = strings.TrimSpace(k)
	}

	// bubbletea reports the space bar as " " or "space" depending on version
	matched := keys
	for _, k := range keys {
		if k == "space" {
			matched = append(append([]string{}, keys...), " ")
			break
		}
	}

	return key.NewBinding(
		key.WithKeys(matched...),
		key.WithHelp(keys[0], helpText),
	)
}

// GetDefaultKeyMappings returns the default key mappings for configuration
func GetDefaultKeyMappings() map[string]string {
	keyMappings := make(map[string]string)
	for action, def := range KeyDefinitions {
		keyMappings[action] = def.DefaultKey
	}
	return keyMappings
}
