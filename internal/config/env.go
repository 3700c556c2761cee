package config

import (
	"strconv"
	"strings"
)

// readEnv collects prefixed variables into a nested value map.
// CARET_EDITOR_TAB_WIDTH=2 becomes {"editor": {"tab_width": 2}}.
func (l *Loader) readEnv() map[string]any {
	values := make(map[string]any)
	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path := envToPath(strings.TrimPrefix(name, l.prefix))
		if path == "" {
			continue
		}
		setByPath(values, path, parseValue(value))
	}
	return values
}

// envToPath converts EDITOR_TAB_WIDTH to editor.tab_width. The first
// segment names the section.
func envToPath(name string) string {
	section, key, ok := strings.Cut(strings.ToLower(name), "_")
	if !ok || section == "" || key == "" {
		return ""
	}
	return section + "." + key
}

// parseValue converts an environment string to an int, a bool or a string.
func parseValue(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
