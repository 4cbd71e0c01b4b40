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
	"ShowHelp":          {"?", "show/hide commands"},
	"QuitApp":           {"q,ctrl+c", "quit"},
	"Back":              {"esc", "back"},
	"NextView":          {"tab", "switch trips/templates/stats"},
	"AddTrip":           {"a", "add trip or item"},
	"EditTrip":          {"e", "edit trip"},
	"DeleteTrip":        {"d", "delete"},
	"OpenTrip":          {"enter", "open checklist"},
	"ToggleItem":        {"space,x", "toggle checklist item"},
	"EditNote":          {"n", "edit today's note"},
	"ToggleHidden":      {"h", "hide/show trip"},
	"Unlock":            {"u", "unlock hidden trips"},
	"Lock":              {"l", "lock hidden trips"},
	"UseTemplate":       {"t", "create trip from template"},
	"DuplicateTemplate": {"c", "duplicate template"},
	"FilterCategory":    {"f", "cycle category filter"},
	"ToggleGroupBy":     {"g", "cycle group by"},
	"ToggleSortOrder":   {"o", "toggle sort order"},
}

type KeyMap struct {
	ShowHelp          key.Binding
	QuitApp           key.Binding
	Back              key.Binding
	NextView          key.Binding
	AddTrip           key.Binding
	EditTrip          key.Binding
	DeleteTrip        key.Binding
	OpenTrip          key.Binding
	ToggleItem        key.Binding
	EditNote          key.Binding
	ToggleHidden      key.Binding
	Unlock            key.Binding
	Lock              key.Binding
	UseTemplate       key.Binding
	DuplicateTemplate key.Binding
	FilterCategory    key.Binding
	ToggleGroupBy     key.Binding
	ToggleSortOrder   key.Binding
}

// BuildKeyMap applies configOverrides on top of the default bindings. Action
// names match case-insensitively since config keys come back lowercased.
func BuildKeyMap(configOverrides map[string]string) KeyMap {
	km := KeyMap{}
	fields := map[string]*key.Binding{
		"ShowHelp":          &km.ShowHelp,
		"QuitApp":           &km.QuitApp,
		"Back":              &km.Back,
		"NextView":          &km.NextView,
		"AddTrip":           &km.AddTrip,
		"EditTrip":          &km.EditTrip,
		"DeleteTrip":        &km.DeleteTrip,
		"OpenTrip":          &km.OpenTrip,
		"ToggleItem":        &km.ToggleItem,
		"EditNote":          &km.EditNote,
		"ToggleHidden":      &km.ToggleHidden,
		"Unlock":            &km.Unlock,
		"Lock":              &km.Lock,
		"UseTemplate":       &km.UseTemplate,
		"DuplicateTemplate": &km.DuplicateTemplate,
		"FilterCategory":    &km.FilterCategory,
		"ToggleGroupBy":     &km.ToggleGroupBy,
		"ToggleSortOrder":   &km.ToggleSortOrder,
	}

	for action, def := range KeyDefinitions {
		keyStr := def.DefaultKey
		if override := lookup(configOverrides, action); override != "" {
			keyStr = override
		}
		if field, ok := fields[action]; ok {
			*field = parseKeyBinding(keyStr, def.DefaultKey, def.Help)
		}
	}
	return km
}

func lookup(overrides map[string]string, action string) string {
	if v, ok := overrides[action]; ok {
		return v
	}
	for k, v := range overrides {
		if strings.EqualFold(k, action) {
			return v
		}
	}
	return ""
}

func parseKeyBinding(keyStr, defaultKey, helpText string) key.Binding {
	if strings.TrimSpace(keyStr) == "" {
		keyStr = defaultKey
	}

	// Handle multiple keys separated by commas
	keys := strings.Split(keyStr, ",")
	for i, k := range keys {
		keys[i] = strings.TrimSpace(k)
	}

	return key.NewBinding(
		key.WithKeys(keys...),
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
