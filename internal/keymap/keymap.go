package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap resolves key presses to commands.
type KeyMap struct {
	bindings map[string]key.Binding
	order    []Binding
}

// New builds a KeyMap from the defaults with overrides applied. An override
// maps a command id to a comma-separated list of keys that replaces the
// default keys of that command.
func New(overrides map[string]string) *KeyMap {
	km := &KeyMap{bindings: make(map[string]key.Binding)}
	for _, b := range DefaultBindings() {
		if o, ok := overrides[b.Command]; ok {
			if keys := splitKeys(o); len(keys) > 0 {
				b.Keys = keys
			}
		}
		km.bindings[b.Command] = key.NewBinding(
			key.WithKeys(b.Keys...),
			key.WithHelp(DisplayKey(b.Keys[0]), b.Help),
		)
		km.order = append(km.order, b)
	}
	return km
}

func splitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k == " " {
			keys = append(keys, k)
			continue
		}
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Binding returns the binding for a command.
func (km *KeyMap) Binding(cmd string) key.Binding {
	return km.bindings[cmd]
}

// Matches reports whether msg triggers cmd.
func (km *KeyMap) Matches(msg tea.KeyMsg, cmd string) bool {
	b, ok := km.bindings[cmd]
	return ok && key.Matches(msg, b)
}

// Lookup returns the first command triggered by msg, preferring commands in
// context, then global ones.
func (km *KeyMap) Lookup(msg tea.KeyMsg, context string) (string, bool) {
	for _, ctx := range []string{context, ContextDiff, ContextGlobal} {
		for _, b := range km.order {
			if b.Context == ctx && key.Matches(msg, km.bindings[b.Command]) {
				return b.Command, true
			}
		}
	}
	return "", false
}

// Section is a titled group of bindings for the help overlay.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Sections returns the bindings grouped by context in display order.
func (km *KeyMap) Sections() []Section {
	titles := []struct{ ctx, title string }{
		{ContextDiff, "Navigation"},
		{ContextList, "Staging"},
		{ContextGlobal, "General"},
	}
	var out []Section
	for _, t := range titles {
		s := Section{Title: t.title}
		for _, b := range km.order {
			if b.Context == t.ctx {
				s.Bindings = append(s.Bindings, km.bindings[b.Command])
			}
		}
		out = append(out, s)
	}
	return out
}

// HelpKeys lists every key of a binding for display, e.g. "j/down".
func HelpKeys(b key.Binding) string {
	keys := b.Keys()
	shown := make([]string, len(keys))
	for i, k := range keys {
		shown[i] = DisplayKey(k)
	}
	return strings.Join(shown, "/")
}

// DisplayKey returns a printable name for a key.
func DisplayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
