package config

import (
	"fmt"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var b strings.Builder
	b.WriteString("# mdslides configuration (TOML)\n\n")

	top, sections, order := splitSections(GetConfigOptions())
	for _, o := range top {
		b.WriteString(strings.Join(optionLines(o), "\n") + "\n")
	}
	for _, section := range order {
		b.WriteString("[" + section + "]\n")
		for _, o := range sections[section] {
			b.WriteString(strings.Join(optionLines(o), "\n") + "\n")
		}
	}
	return b.String()
}

// UpdateTOML merges missing defaults into an existing TOML string and
// comments out keys that are no longer part of the schema. Missing keys of
// a table that already exists are appended to that table.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	lines := strings.Split(existing, "\n")
	seen := make(map[string]bool)
	tables := make(map[string]bool)
	section := ""
	for _, line := range lines {
		if name, ok := parseTOMLSection(line); ok {
			section = name
			tables[name] = true
			continue
		}
		if key, ok := parseTOMLKey(line); ok {
			seen[qualify(section, key)] = true
		}
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	top, sections, order := splitSections(missing)
	changed := len(missing) > 0

	out := make([]string, 0, len(lines)+len(missing)*3)
	if len(top) > 0 {
		out = append(out, "# Added by config update")
		for _, o := range top {
			out = append(out, optionLines(o)...)
		}
	}
	flush := func(name string) {
		for _, o := range sections[name] {
			out = append(out, optionLines(o)...)
		}
		delete(sections, name)
	}

	section = ""
	for _, line := range lines {
		if name, ok := parseTOMLSection(line); ok {
			flush(section)
			section = name
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if ok && !known[qualify(section, key)] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema")
			out = append(out, indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
		}
		out = append(out, line)
	}
	flush(section)

	var added bool
	for _, name := range order {
		if tables[name] || len(sections[name]) == 0 {
			continue
		}
		if !added {
			out = append(out, "", "# Added by config update")
			added = true
		}
		out = append(out, "["+name+"]")
		flush(name)
	}
	return strings.Join(out, "\n"), changed
}

func qualify(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}

func parseTOMLSection(line string) (string, bool) {
	trim := strings.TrimSpace(line)
	if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
		return strings.TrimSpace(trim[1 : len(trim)-1]), true
	}
	return "", false
}

func splitSections(opts []ConfigOption) ([]ConfigOption, map[string][]ConfigOption, []string) {
	var top []ConfigOption
	sections := make(map[string][]ConfigOption)
	var order []string
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, exists := sections[section]; !exists {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func parseTOMLKey(line string) (string, bool) {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return "", false
	}
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") || strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func optionLines(o ConfigOption) []string {
	var lines []string
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	switch v := o.Default.(type) {
	case string:
		lines = append(lines, fmt.Sprintf("%s = %q", o.Key, v))
	default:
		lines = append(lines, fmt.Sprintf("%s = %v", o.Key, v))
	}
	return append(lines, "")
}
