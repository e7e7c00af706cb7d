package config

import (
	"fmt"
	"slices"
	"strings"
)

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// ActionDescriptions gives a human readable label for every bindable action.
var ActionDescriptions = map[string]string{
	"cascade":         "Cascade windows",
	"tile":            "Tile windows",
	"close_all":       "Close all windows",
	"close_window":    "Close window",
	"minimize_window": "Minimize window",
	"restore_window":  "Restore window",
	"next_window":     "Next window",
	"prev_window":     "Previous window",
	"window_menu":     "Window menu",

	"launch_editor":       "Open text editor",
	"launch_terminal":     "Open terminal",
	"launch_launcher":     "Open server launcher",
	"launch_calculator":   "Open calculator",
	"launch_taskmgr":      "Open task manager",
	"launch_explorer":     "Open file explorer",
	"launch_fetcher":      "Open API fetcher",
	"launch_music":        "Open music player",
	"launch_imageviewer":  "Open image viewer",
	"launch_controlpanel": "Open control panel",

	"menu_file":    "File menu",
	"menu_edit":    "Edit tools menu",
	"menu_system":  "System tools menu",
	"menu_network": "Network tools menu",
	"menu_fun":     "Entertainment menu",
	"menu_window":  "Window menu",
	"menu_help":    "Help menu",

	"start_menu":  "Start menu",
	"menu_bar":    "Focus menu bar",
	"about":       "About",
	"toggle_logs": "Toggle log viewer",
	"quit":        "Quit",
}

// KeyNormalizer canonicalizes key strings so config entries written as
// "Ctrl+W" match the "ctrl+w" strings bubbletea reports.
type KeyNormalizer struct {
	aliases map[string]string
}

// NewKeyNormalizer returns a normalizer with the common key aliases.
func NewKeyNormalizer() *KeyNormalizer {
	return &KeyNormalizer{
		aliases: map[string]string{
			"return":  "enter",
			"escape":  "esc",
			"spc":     "space",
			" ":       "space",
			"del":     "delete",
			"ins":     "insert",
			"pgup":    "pgup",
			"pageup":  "pgup",
			"pgdn":    "pgdown",
			"pagedn":  "pgdown",
			"control": "ctrl",
			"option":  "alt",
			"meta":    "alt",
		},
	}
}

var modifierOrder = []string{"ctrl", "alt", "shift", "super", "hyper"}

// NormalizeKey returns the spellings a key may arrive as. The lowercased
// input is always first; an alias expansion follows when one applies.
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	lower := strings.ToLower(strings.TrimSpace(key))
	if lower == "" {
		return nil
	}
	out := []string{lower}
	if c := n.Canonical(key); c != lower {
		out = append(out, c)
	}
	return out
}

// Canonical returns the single canonical form: aliases resolved and
// modifiers sorted ctrl, alt, shift, super, hyper.
func (n *KeyNormalizer) Canonical(key string) string {
	lower := strings.ToLower(strings.TrimSpace(key))
	if lower == "+" || lower == "" {
		return lower
	}
	parts := strings.Split(lower, "+")
	// "ctrl++" style bindings leave an empty last element for the plus key.
	if parts[len(parts)-1] == "" {
		parts = append(parts[:len(parts)-2], "+")
	}
	base := parts[len(parts)-1]
	if alias, ok := n.aliases[base]; ok {
		base = alias
	}
	var mods []string
	for _, m := range parts[:len(parts)-1] {
		if alias, ok := n.aliases[m]; ok {
			m = alias
		}
		if !slices.Contains(mods, m) {
			mods = append(mods, m)
		}
	}
	slices.SortFunc(mods, func(a, b string) int {
		return slices.Index(modifierOrder, a) - slices.Index(modifierOrder, b)
	})
	return strings.Join(append(mods, base), "+")
}

// ValidateKey reports whether key is usable, and why not.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	if strings.TrimSpace(key) == "" {
		return false, "empty key"
	}
	c := n.Canonical(key)
	parts := strings.Split(c, "+")
	if c != "+" {
		for _, m := range parts[:len(parts)-1] {
			if !slices.Contains(modifierOrder, m) {
				return false, fmt.Sprintf("unknown modifier %q in %q", m, key)
			}
		}
	}
	return true, ""
}

// KeybindRegistry resolves pressed keys to actions and actions to keys.
type KeybindRegistry struct {
	keyToAction map[string]string
	actionKeys  map[string][]string
	normalizer  *KeyNormalizer
}

// NewKeybindRegistry indexes every binding in cfg. Later sections do not
// override earlier ones; Validate reports such conflicts.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		keyToAction: map[string]string{},
		actionKeys:  map[string][]string{},
		normalizer:  NewKeyNormalizer(),
	}
	for _, section := range cfg.Keybindings.Sections() {
		actions := make([]string, 0, len(section))
		for action := range section {
			actions = append(actions, action)
		}
		slices.Sort(actions)
		for _, action := range actions {
			for _, key := range section[action] {
				if ok, _ := r.normalizer.ValidateKey(key); !ok {
					continue
				}
				c := r.normalizer.Canonical(key)
				if _, taken := r.keyToAction[c]; taken {
					continue
				}
				r.keyToAction[c] = action
				r.actionKeys[action] = append(r.actionKeys[action], key)
			}
		}
	}
	return r
}

// GetAction returns the action bound to key, or "" when unbound.
func (r *KeybindRegistry) GetAction(key string) string {
	return r.keyToAction[r.normalizer.Canonical(key)]
}

// GetKeys returns the keys bound to action in config order.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionKeys[action]
}

// GetKeysForDisplay formats the keys of action for menus and help, e.g.
// "F9 / Ctrl+Space".
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.actionKeys[action]
	if len(keys) == 0 {
		return ""
	}
	shown := make([]string, len(keys))
	for i, k := range keys {
		shown[i] = DisplayKey(k)
	}
	return strings.Join(shown, " / ")
}

// Actions returns every bound action sorted by name.
func (r *KeybindRegistry) Actions() []string {
	out := make([]string, 0, len(r.actionKeys))
	for a := range r.actionKeys {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// DisplayKey title-cases each part of a key string: "ctrl+w" -> "Ctrl+W".
func DisplayKey(key string) string {
	parts := strings.Split(key, "+")
	for i, p := range parts {
		switch {
		case p == "":
			parts[i] = "+"
		case len(p) == 1:
			parts[i] = strings.ToUpper(p)
		default:
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "+")
}

// GetKeybindings returns the help sections, generated from registry.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	groups := []struct {
		title   string
		actions []string
	}{
		{"WINDOWS", []string{"cascade", "tile", "next_window", "prev_window", "minimize_window", "restore_window", "close_window", "close_all", "window_menu"}},
		{"TOOLS", []string{"launch_editor", "launch_terminal", "launch_launcher", "launch_calculator", "launch_taskmgr", "launch_explorer", "launch_fetcher", "launch_music", "launch_imageviewer", "launch_controlpanel"}},
		{"MENUS", []string{"menu_file", "menu_edit", "menu_system", "menu_network", "menu_fun", "menu_window", "menu_help"}},
		{"SYSTEM", []string{"start_menu", "menu_bar", "about", "toggle_logs", "quit"}},
	}

	var sections []KeybindingSection
	for _, g := range groups {
		section := KeybindingSection{Title: g.title}
		for _, action := range g.actions {
			addBinding(&section, registry, action, ActionDescriptions[action])
		}
		if len(section.Bindings) > 0 {
			sections = append(sections, section)
		}
	}
	sections = append(sections, KeybindingSection{
		Title: "MOUSE",
		Bindings: []Keybinding{
			{"Click title bar", "Focus and drag window"},
			{"Click [_] / [X]", "Minimize / close window"},
			{"Click task button", "Restore and focus window"},
			{"Right click task button", "Window context menu"},
		},
	})
	return sections
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}
