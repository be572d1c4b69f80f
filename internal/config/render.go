package config

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	var lines []string
	lines = append(lines, "# tablemark configuration (TOML)", "")

	top, sections, order := groupOptions(GetConfigOptions())
	for _, o := range top {
		writeTOMLOptionLines(&lines, o.Key, o.Default, o.Comment)
	}
	for _, section := range order {
		lines = append(lines, "["+section+"]")
		for _, o := range sections[section] {
			writeTOMLOptionLines(&lines, o.Key, o.Default, o.Comment)
		}
	}
	return strings.Join(lines, "\n")
}

// UpdateTOML adds missing defaults to an existing TOML string and comments
// out keys that are no longer known. Missing keys go into their existing
// section when there is one; top-level keys go before the first section.
func UpdateTOML(existing string) (string, bool) {
	opts := GetConfigOptions()
	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.Key] = true
	}

	lines := strings.Split(existing, "\n")
	present := make(map[string]bool)
	section := ""
	for _, line := range lines {
		if name, ok := sectionHeader(line); ok {
			section = name
			continue
		}
		if key, ok := parseTOMLKey(line); ok {
			present[qualify(section, key)] = true
		}
	}

	missing := make([]ConfigOption, 0)
	for _, o := range opts {
		if !present[o.Key] {
			missing = append(missing, o)
		}
	}
	top, sections, order := groupOptions(missing)
	changed := len(missing) > 0

	out := make([]string, 0, len(lines)+len(missing)*3)
	flush := func(name string) {
		var add []ConfigOption
		if name == "" {
			add, top = top, nil
		} else {
			add = sections[name]
			delete(sections, name)
		}
		if len(add) == 0 {
			return
		}
		out = append(out, "# Added by config update")
		for _, o := range add {
			writeTOMLOptionLines(&out, o.Key, o.Default, o.Comment)
		}
	}

	section = ""
	for _, line := range lines {
		if name, ok := sectionHeader(line); ok {
			flush(section)
			section = name
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if ok && !known[qualify(section, key)] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out,
				indent+"# OUTDATED: option removed from config schema",
				indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
		}
		out = append(out, line)
	}
	flush(section)
	flush("")

	for _, name := range order {
		opts, ok := sections[name]
		if !ok {
			continue
		}
		out = append(out, "", "# Added by config update", "["+name+"]")
		for _, o := range opts {
			writeTOMLOptionLines(&out, o.Key, o.Default, o.Comment)
		}
	}
	return strings.Join(out, "\n"), changed
}

func sectionHeader(line string) (string, bool) {
	trim := strings.TrimSpace(line)
	if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
		return strings.TrimSpace(trim[1 : len(trim)-1]), true
	}
	return "", false
}

func qualify(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}

// groupOptions splits dotted keys into sections, keeping first-seen order.
func groupOptions(opts []ConfigOption) ([]ConfigOption, map[string][]ConfigOption, []string) {
	var top []ConfigOption
	sections := make(map[string][]ConfigOption)
	var order []string
	for _, o := range opts {
		name, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, seen := sections[name]; !seen {
			order = append(order, name)
		}
		sections[name] = append(sections[name], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func parseTOMLKey(line string) (string, bool) {
	trim := strings.TrimSpace(line)
	if strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";") {
		return "", false
	}
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") {
		return "", false
	}
	if strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func writeTOMLOptionLines(lines *[]string, key string, value any, comment string) {
	if comment != "" {
		*lines = append(*lines, "# "+comment)
	}
	*lines = append(*lines, key+" = "+tomlValue(value), "")
}
