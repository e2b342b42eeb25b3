package help

import "strings"

// Version is the vp release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--since <date>" or "--save"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string
	Desc     string
	Optional bool
}

// Command describes a vp subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string   // "init", "hook", etc; "" for top-level
	Synopsis    string   // one-line description (lowercase, for --help header)
	Brief       string   // short description for usage table (capitalized)
	Usage       string   // full usage line, e.g. "vp trends [--weeks <n>]"
	TableUsage  string   // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
	SeeAlso     []string // man page cross-refs, e.g. "vp(1)"
}

func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns the man page name: "vp" for top-level, "vp-<name>" for subs.
// Spaces in Name are replaced with hyphens ("hook install" → "vp-hook-install").
func (c Command) ManName() string {
	if c.Name == "" {
		return "vp"
	}
	return "vp-" + strings.ReplaceAll(c.Name, " ", "-")
}

// Lookup returns the registered command with the given name, searching
// hook subcommands too.
func Lookup(name string) (Command, bool) {
	for _, c := range Subcommands {
		if c.Name == name {
			return c, true
		}
	}
	for _, c := range HookSubcommands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// TopLevel is the top-level vp command (used by FormatUsage).
var TopLevel = Command{
	Name:     "",
	Synopsis: "vibe-profile learning style profiler",
}

var CmdInit = Command{
	Name:       "init",
	Synopsis:   "write the default configuration",
	Brief:      "Write default config",
	Usage:      "vp init [--data-dir <path>]",
	TableUsage: "vp init",
	Flags: []Flag{
		{Name: "--data-dir <path>", Desc: "Where events, archives and snapshots live"},
	},
	Description: `Writes ~/.config/vibe-profile/config.toml with every key at its default.
If the file already exists only its data_dir line is rewritten; other
sections are left alone.`,
	Examples: []string{
		"vp init                            Use ~/.local/share/vibe-profile",
		"vp init --data-dir ~/vp            Keep data under ~/vp",
	},
	SeeAlso: []string{"vp(1)", "vp-check(1)"},
}

var CmdHook = Command{
	Name:       "hook",
	Synopsis:   "Claude Code hook handler",
	Brief:      "Hook mode (reads stdin from Claude Code)",
	Usage:      "vp hook [install | uninstall]",
	TableUsage: "vp hook [install | ...]",
	Description: `Reads one JSON payload from stdin as delivered by Claude Code's hook
system and appends the classified event to the event log:

  UserPromptSubmit   task_start for a new session, else a user turn
  Stop               assistant turn with suggestion kind and tools
  PostToolUse        code_edit and file_save for Edit/Write tools

Other events are ignored. Each invocation is stateless, so adoption
verdicts are only inferred by vp watch.

This command is meant to be called by Claude Code, not directly.

Subcommands:
  vp hook install     Add vp hooks to ~/.claude/settings.json
  vp hook uninstall   Remove vp hooks from ~/.claude/settings.json`,
	SeeAlso: []string{"vp(1)", "vp-watch(1)", "vp-hook-install(1)", "vp-hook-uninstall(1)"},
}

var CmdWatch = Command{
	Name:       "watch",
	Synopsis:   "run the live capture pipeline",
	Brief:      "Capture chat, edits and adoption verdicts",
	Usage:      "vp watch [--dir <path>]",
	TableUsage: "vp watch [--dir X]",
	Flags: []Flag{
		{Name: "--dir <path>", Desc: "Workspace to watch (default: git root of the current directory)"},
	},
	Description: `Reads newline-delimited hook payloads on stdin while watching the
workspace for source file edits. Each assistant turn stays pending
until the student edits code, asks a follow-up, or the adoption
timeout passes; the verdict is then appended to the event log.

Edits and saves are attributed to the most recently active task.
The live log is rotated into the archive when it grows past
archive.max_bytes. Pending turns are finalized on exit.`,
	Examples: []string{
		"vp watch < chat.ndjson",
		"tail -f chat.ndjson | vp watch --dir ~/src/project",
	},
	SeeAlso: []string{"vp(1)", "vp-hook(1)", "vp-profile(1)"},
}

var CmdImport = Command{
	Name:       "import",
	Synopsis:   "record past Claude Code sessions from their transcripts",
	Brief:      "Import past sessions from transcripts",
	Usage:      "vp import [<path>...]",
	TableUsage: "vp import [path...]",
	Args: []Arg{
		{Name: "<path>", Desc: "Transcript file or directory (default: ~/.claude/projects)", Optional: true},
	},
	Description: `Replays Claude Code session transcripts through the same pipeline
the hook feeds, stamping each event with the time it happened in the
session. Assistant turns left pending longer than adoption.timeout_seconds
are judged on behavior alone, as they would have been live.

Sessions whose id already appears in the event log or its archives are
skipped, so importing the same directory twice records nothing new.`,
	Examples: []string{
		"vp import",
		"vp import ~/.claude/projects/-home-me-api",
	},
	SeeAlso: []string{"vp(1)", "vp-hook(1)", "vp-profile(1)"},
}

var CmdProfile = Command{
	Name:       "profile",
	Synopsis:   "aggregate the event log into a competency profile",
	Brief:      "Print the competency profile",
	Usage:      "vp profile [--since <date>] [--until <date>] [--format text|json|yaml] [--save]",
	TableUsage: "vp profile [--format X]",
	Flags: []Flag{
		{Name: "--since <date>", Desc: "Only events at or after this date (YYYY-MM-DD or RFC 3339)"},
		{Name: "--until <date>", Desc: "Only events before this date"},
		{Name: "--format <fmt>", Desc: "Output format: text, json or yaml (default: text)"},
		{Name: "--save", Desc: "Store the profile as a snapshot"},
	},
	Description: `Reads every archived log plus the live log and computes the six
behavioral ratios and the best-fit learning style. Malformed lines
are skipped and counted.`,
	Examples: []string{
		"vp profile                          Full history",
		"vp profile --since 2026-03-01       Time-boxed profile",
		"vp profile --format json --save     Export and snapshot",
	},
	SeeAlso: []string{"vp(1)", "vp-history(1)", "vp-trends(1)"},
}

var CmdHistory = Command{
	Name:       "history",
	Synopsis:   "list saved profile snapshots",
	Brief:      "List saved profile snapshots",
	Usage:      "vp history [--limit <n>] [--show <id>] [--prune <keep>]",
	TableUsage: "vp history [--limit X]",
	Flags: []Flag{
		{Name: "--limit <n>", Desc: "Show at most n snapshots (default: 20)"},
		{Name: "--show <id>", Desc: "Print one snapshot by id or unique prefix"},
		{Name: "--prune <keep>", Desc: "Delete all but the newest keep snapshots"},
	},
	Description: `Lists snapshots written by vp profile --save, newest first, with
their style and headline metrics.`,
	SeeAlso: []string{"vp(1)", "vp-profile(1)"},
}

var CmdTrends = Command{
	Name:       "trends",
	Synopsis:   "show learning style trends over time",
	Brief:      "Show weekly style and metric trends",
	Usage:      "vp trends [--weeks <n>] [--format text|json]",
	TableUsage: "vp trends [--weeks X]",
	Flags: []Flag{
		{Name: "--weeks <n>", Desc: "Number of weeks to display (default: 12)"},
		{Name: "--format <fmt>", Desc: "Output format: text or json (default: text)"},
	},
	Description: `Buckets the full history by ISO week and profiles each week on its
own. Shows direction (improving, worsening, stable) by comparing the
most recent 4 weeks against the previous 4 weeks.

Tracks four metrics:
  - AI dependency (lower is better)
  - Self-modification rate
  - Adoption rate
  - Exploration breadth`,
	Examples: []string{
		"vp trends                Last 12 weeks",
		"vp trends --weeks 26     Last half year",
	},
	SeeAlso: []string{"vp(1)", "vp-profile(1)"},
}

var CmdArchive = Command{
	Name:     "archive",
	Synopsis: "rotate the event log into the archive",
	Brief:    "Rotate the event log into the archive",
	Usage:    "vp archive",
	Description: `Moves the live event log to archive/events-<UTC stamp>.jsonl.zst
(or .jsonl when archive.compress is false). The next event starts
a fresh log. Archived logs are still read by vp profile and vp trends.`,
	SeeAlso: []string{"vp(1)", "vp-check(1)"},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config, data and hook setup",
	Brief:    "Validate config, data and hook setup",
	Usage:    "vp check",
	Description: `Runs diagnostic checks and prints a pass/warn/FAIL report:
  - Config file location
  - Data directory exists and is writable
  - Event log parses, with skipped line count
  - Archive directory contents
  - Snapshot database
  - Workspace can be watched
  - Claude Code hook setup in ~/.claude/settings.json

Exit code 0 if all checks pass or warn, 1 if any check fails.`,
	SeeAlso: []string{"vp(1)", "vp-init(1)"},
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "vp version",
	SeeAlso:  []string{"vp(1)"},
}

var CmdHookInstall = Command{
	Name:     "hook install",
	Synopsis: "add vp hooks to Claude Code settings",
	Brief:    "Add vp hooks to settings.json",
	Usage:    "vp hook install",
	Description: `Adds UserPromptSubmit, Stop, PostToolUse and SessionEnd hook entries
to ~/.claude/settings.json so that Claude Code calls vp hook on
every turn and edit.

Creates the settings file and parent directory if they don't exist.
Preserves all existing settings and hooks. A backup is saved to
settings.json.vp.bak before any modification.

Running it when hooks are already configured changes nothing.`,
	SeeAlso: []string{"vp(1)", "vp-hook(1)", "vp-hook-uninstall(1)", "vp-check(1)"},
}

var CmdHookUninstall = Command{
	Name:     "hook uninstall",
	Synopsis: "remove vp hooks from Claude Code settings",
	Brief:    "Remove vp hooks from settings.json",
	Usage:    "vp hook uninstall",
	Description: `Removes hook entries containing "vp hook" from ~/.claude/settings.json.
Preserves all other settings and hooks. A backup is saved to
settings.json.vp.bak before any modification.

Running it when no vp hooks are present changes nothing.`,
	SeeAlso: []string{"vp(1)", "vp-hook(1)", "vp-hook-install(1)"},
}

// HookSubcommands is the ordered list of hook sub-subcommands.
var HookSubcommands = []Command{
	CmdHookInstall,
	CmdHookUninstall,
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdInit,
	CmdHook,
	CmdWatch,
	CmdImport,
	CmdProfile,
	CmdHistory,
	CmdTrends,
	CmdArchive,
	CmdCheck,
	CmdVersion,
}
