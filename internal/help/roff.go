package help

import (
	"fmt"
	"strings"
	"time"
)

const manual = "Vibe-Profile Manual"

// dataFiles lists what vp keeps under data_dir.
var dataFiles = [][2]string{
	{"events.jsonl", "Live newline-delimited event log"},
	{"archive/events-<stamp>.jsonl.zst", "Rotated logs, oldest first by name"},
	{"profiles.db", "SQLite store of saved profile snapshots"},
}

// page accumulates one roff man page.
type page struct {
	b strings.Builder
}

func newPage(manName, date string) *page {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	p := &page{}
	fmt.Fprintf(&p.b, ".TH %s 1 %q %q %q\n", strings.ToUpper(manName), date, "vp "+Version, manual)
	return p
}

func (p *page) section(title string) {
	p.b.WriteString(".SH " + title + "\n")
}

func (p *page) line(s string) {
	p.b.WriteString(escapeRoff(s) + "\n")
}

// item writes a tagged paragraph: the tag in the given font (B or I).
func (p *page) item(font, tag, desc string) {
	fmt.Fprintf(&p.b, ".TP\n.%s %s\n%s\n", font, escapeRoff(tag), escapeRoff(desc))
}

// paragraphs writes text verbatim, turning runs of blank lines into one .PP.
func (p *page) paragraphs(text string) {
	prevBlank := false
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" {
			if !prevBlank {
				p.b.WriteString(".PP\n")
			}
			prevBlank = true
			continue
		}
		prevBlank = false
		p.line(l)
	}
}

func (p *page) seeAlso(refs []string) {
	if len(refs) == 0 {
		return
	}
	p.section("SEE ALSO")
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = formatManRef(ref)
	}
	p.b.WriteString(strings.Join(out, ",\n") + "\n")
}

func (p *page) String() string { return p.b.String() }

// FormatRoff renders a subcommand as a man page (section 1). An empty date
// means today; gen-man passes a fixed one for reproducible output.
func FormatRoff(c Command, date string) string {
	p := newPage(c.ManName(), date)

	p.section("NAME")
	fmt.Fprintf(&p.b, "%s \\- %s\n", c.ManName(), escapeRoff(c.Synopsis))

	p.section("SYNOPSIS")
	p.b.WriteString(".B " + escapeRoff(c.Usage) + "\n")

	if c.Description != "" {
		p.section("DESCRIPTION")
		p.paragraphs(c.Description)
	}

	if len(c.Args) > 0 || len(c.Flags) > 0 {
		p.section("OPTIONS")
		for _, a := range c.Args {
			name := a.Name
			if a.Optional {
				name = "[" + name + "]"
			}
			p.item("B", name, a.Desc)
		}
		for _, f := range c.Flags {
			p.item("B", f.Name, f.Desc)
		}
	}

	if len(c.Examples) > 0 {
		p.section("EXAMPLES")
		p.b.WriteString(".nf\n")
		for _, e := range c.Examples {
			p.line(e)
		}
		p.b.WriteString(".fi\n")
	}

	p.seeAlso(c.SeeAlso)
	return p.String()
}

// FormatRoffTopLevel renders vp.1: the command table, config location,
// data files and references to every subcommand page.
func FormatRoffTopLevel(top Command, subs []Command, date string) string {
	p := newPage("vp", date)

	p.section("NAME")
	fmt.Fprintf(&p.b, "vp \\- %s\n", escapeRoff(top.Synopsis))

	p.section("SYNOPSIS")
	p.b.WriteString(".B vp\n.I command\n.RI [ options ]\n")

	p.section("DESCRIPTION")
	p.b.WriteString(".B vp\n")
	p.paragraphs(`(vibe-profile) records how a student works with an AI coding assistant
and whether its suggestions are adopted, then derives behavioral metrics
and a learning style from the accumulated event log.`)

	p.section("COMMANDS")
	for _, s := range subs {
		fmt.Fprintf(&p.b, ".TP\n.B \"%s\"\n%s\n", escapeRoff(s.tableUsage()), escapeRoff(s.Brief))
	}

	p.section("CONFIGURATION")
	p.b.WriteString("Configuration file: ~/.config/vibe\\-profile/config.toml\n")

	p.section("FILES")
	for _, f := range dataFiles {
		p.item("I", f[0], f[1])
	}

	refs := make([]string, len(subs))
	for i, s := range subs {
		refs[i] = s.ManName() + "(1)"
	}
	p.seeAlso(refs)
	return p.String()
}

// escapeRoff escapes backslashes, leading dots and hyphens.
func escapeRoff(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n.", "\n\\&.")
	if strings.HasPrefix(s, ".") {
		s = "\\&" + s
	}
	return strings.ReplaceAll(s, "-", "\\-")
}

// formatManRef turns "vp-init(1)" into ".BR vp\-init (1)".
func formatManRef(ref string) string {
	if i := strings.Index(ref, "("); i >= 0 {
		return fmt.Sprintf(".BR %s %s", escapeRoff(ref[:i]), ref[i:])
	}
	return ".B " + escapeRoff(ref)
}
