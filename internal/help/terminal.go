package help

import (
	"fmt"
	"strings"
)

// FormatTerminal renders a subcommand's help text for terminal --help output.
func FormatTerminal(c Command) string {
	var sections []string

	sections = append(sections, fmt.Sprintf("vp %s - %s", c.Name, c.Synopsis))
	sections = append(sections, fmt.Sprintf("Usage: %s", c.Usage))

	// Args and flags share one description column.
	maxNameLen := 0
	for _, a := range c.Args {
		maxNameLen = max(maxNameLen, len(a.Name))
	}
	for _, f := range c.Flags {
		maxNameLen = max(maxNameLen, len(f.Name))
	}
	col := maxNameLen + 3

	if len(c.Args) > 0 {
		lines := []string{"Arguments:"}
		for _, a := range c.Args {
			lines = append(lines, "  "+pad(a.Name, col)+a.Desc)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(c.Flags) > 0 {
		lines := []string{"Flags:"}
		for _, f := range c.Flags {
			lines = append(lines, "  "+pad(f.Name, col)+f.Desc)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if c.Description != "" {
		sections = append(sections, c.Description)
	}

	if len(c.Examples) > 0 {
		lines := []string{"Examples:"}
		for _, e := range c.Examples {
			lines = append(lines, "  "+e)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

// FormatUsage renders the top-level usage text (for vp --help / vp help).
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "vp %s - %s\n", Version, top.Synopsis)
	b.WriteString("\nUsage:\n")

	type entry struct {
		usage string
		brief string
	}
	entries := make([]entry, 0, len(subs)+1)
	for _, s := range subs {
		entries = append(entries, entry{s.tableUsage(), s.Brief})
	}
	entries = append(entries, entry{"vp help [command]", "Show help"})

	width := 0
	for _, e := range entries {
		width = max(width, len(e.usage))
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s%s\n", pad(e.usage, width+3), e.brief)
	}

	b.WriteString(`
Global flags:
  --config <path>   Config file (default: ~/.config/vibe-profile/config.toml)
  --log <path>      Event log (default: <data_dir>/events.jsonl)
  -v, --verbose     Debug logging on stderr

Hook integration (settings.json):
  {"type": "command", "command": "vp hook"}
`)
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
