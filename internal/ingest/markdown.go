package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ziadkadry99/overcoach/internal/overfast"
)

// HeroMarkdown renders the knowledge document for one hero.
func HeroMarkdown(key string, h *overfast.HeroDetail) string {
	var lines []string
	add := func(l ...string) { lines = append(lines, l...) }

	add("# "+orDefault(h.Name, key)+"\n", "## Basic Information\n")
	add("- **Key**: "+key,
		"- **Name**: "+orDefault(h.Name, "N/A"),
		"- **Role**: "+orDefault(h.Role, "N/A"))
	if h.Description != "" {
		add("- **Description**: " + h.Description)
	}
	add("")

	if h.Location != "" {
		add("- **Location**: " + h.Location)
	}
	add("")

	if h.Story != nil && h.Story.Summary != "" {
		add("## Story\n", h.Story.Summary, "")
	}

	if len(h.Abilities) > 0 {
		add("## Abilities\n")
		for _, a := range h.Abilities {
			name := orDefault(a.Name, "Unknown")
			add("### " + name + "\n")
			if a.Icon != "" {
				add(fmt.Sprintf("![%s](%s)\n", name, a.Icon))
			}
			add(orDefault(a.Description, "No description") + "\n")
		}
		add("")
	}

	if h.Hitpoints != nil {
		add("## Hitpoints\n")
		for _, hp := range *h.Hitpoints {
			if hp.Value != 0 {
				add(fmt.Sprintf("- **%s**: %s", titleCase(hp.Kind), strconv.FormatFloat(hp.Value, 'f', -1, 64)))
			}
		}
		add("")
	}

	return strings.Join(lines, "\n")
}

// MapMarkdown renders the knowledge document for one map.
func MapMarkdown(m overfast.Map) string {
	var lines []string
	add := func(l ...string) { lines = append(lines, l...) }

	add("# "+orDefault(m.Name, "Unknown Map")+"\n", "## Basic Information\n")
	add("- **Name**: " + orDefault(m.Name, "N/A"))
	if len(m.Gamemodes) > 0 {
		add("- **Gamemodes**: " + strings.Join(m.Gamemodes, ", "))
	}
	if m.Location != "" {
		add("- **Location**: " + m.Location)
	}
	if m.CountryCode != "" {
		add("- **Country**: " + m.CountryCode)
	}
	add("")

	if m.Screenshot != "" {
		add(fmt.Sprintf("![%s Screenshot](%s)\n", orDefault(m.Name, "Map"), m.Screenshot))
	}

	return strings.Join(lines, "\n")
}

// SafeMapFilename turns a map name into a file stem: lower case, spaces to
// hyphens, apostrophes and colons dropped.
func SafeMapFilename(name string) string {
	name = strings.ToLower(orDefault(name, "unknown"))
	return strings.NewReplacer(" ", "-", "'", "", ":", "").Replace(name)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
