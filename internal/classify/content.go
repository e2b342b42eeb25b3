package classify

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/suykerbuyk/vibe-profile/internal/event"
)

var (
	fencePattern    = regexp.MustCompile("(?m)^[ \\t]*```[ \\t]*([A-Za-z0-9_+#-]*)")
	codeLinePattern = regexp.MustCompile(`^\s*(func |def |class |import |from \S+ import|package |const |let |var |return\b|if \(|for \(|#include|public |private |fn |SELECT |CREATE TABLE)|[{};]\s*$`)
)

// HasCode reports whether text contains a fenced block or at least two
// lines that look like source code.
func (c *Classifier) HasCode(text string) bool {
	if strings.Contains(text, "```") {
		return true
	}
	hits := 0
	for _, line := range strings.Split(text, "\n") {
		if codeLinePattern.MatchString(line) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}

var fenceAliases = map[string]string{
	"py": "python", "python3": "python",
	"js": "javascript", "jsx": "javascript", "node": "javascript",
	"ts": "typescript", "tsx": "typescript",
	"golang": "go",
	"rs": "rust",
	"c++": "cpp", "cc": "cpp",
	"cs": "csharp", "c#": "csharp",
	"sh": "shell", "bash": "shell", "zsh": "shell",
	"rb": "ruby",
	"kt": "kotlin",
}

var languageSignals = []struct {
	lang    string
	pattern *regexp.Regexp
}{
	{"go", regexp.MustCompile(`\bfunc \w+\(|\bpackage main\b|:= |\bgo func\b`)},
	{"python", regexp.MustCompile(`(?m)\bdef \w+\(|^import \w+$|\bself\.|\belif\b|print\(`)},
	{"rust", regexp.MustCompile(`\bfn \w+\(|\blet mut\b|\bimpl\b|println!`)},
	{"typescript", regexp.MustCompile(`:\s*(string|number|boolean)\b|\binterface \w+ \{`)},
	{"javascript", regexp.MustCompile(`\bconst \w+ = |\bfunction \w+\(|=> \{|console\.log`)},
	{"java", regexp.MustCompile(`\bpublic (static )?(class|void)\b|System\.out\.println`)},
	{"cpp", regexp.MustCompile(`#include\s*<|std::|cout <<`)},
	{"sql", regexp.MustCompile(`(?i)\bSELECT .+ FROM\b|\bCREATE TABLE\b`)},
}

// Language guesses a programming language from text: a fence info string
// wins, then keyword signals. Returns "" when nothing matches.
func (c *Classifier) Language(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil && m[1] != "" {
		lang := strings.ToLower(m[1])
		if alias, ok := fenceAliases[lang]; ok {
			return alias
		}
		return lang
	}
	for _, s := range languageSignals {
		if s.pattern.MatchString(text) {
			return s.lang
		}
	}
	return ""
}

var extensionLanguages = map[string]string{
	".go": "go", ".py": "python", ".js": "javascript", ".jsx": "javascript", ".mjs": "javascript",
	".ts": "typescript", ".tsx": "typescript", ".rs": "rust", ".java": "java", ".kt": "kotlin",
	".c": "c", ".h": "c", ".cc": "cpp", ".cpp": "cpp", ".hpp": "cpp", ".cs": "csharp",
	".rb": "ruby", ".php": "php", ".swift": "swift", ".scala": "scala", ".sql": "sql",
	".sh": "shell", ".lua": "lua", ".r": "r", ".m": "objc", ".dart": "dart",
}

// LanguageFromPath maps a file extension to a language hint.
func LanguageFromPath(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}

// IsSourcePath reports whether path has a known source extension.
func IsSourcePath(path string) bool {
	return LanguageFromPath(path) != ""
}

var completionPhrases = []string{
	"all done", "done!", "that should do it", "task is complete", "is now complete",
	"everything is working", "all tests pass", "you're all set", "that completes",
	"implementation is complete", "should now work",
}

var fixWords = []string{"fix", "bug", "error", "issue", "patch", "the problem"}

// Suggestion classifies what an assistant turn offered.
func (c *Classifier) Suggestion(text string, hasCode bool) event.SuggestionKind {
	lower := strings.ToLower(text)
	for _, p := range completionPhrases {
		if strings.Contains(lower, p) {
			return event.SuggestionCompletion
		}
	}
	if hasCode {
		for _, w := range fixWords {
			if strings.Contains(lower, w) {
				return event.SuggestionFix
			}
		}
		return event.SuggestionCode
	}
	if strings.HasSuffix(strings.TrimSpace(lower), "?") {
		return event.SuggestionQuestion
	}
	return event.SuggestionExplanation
}

// Message classifies text into the fields a conversational event carries.
func (c *Classifier) Message(text string) event.Message {
	return event.Message{
		Category:      c.Category(text),
		ContentLength: len(text),
		HasCode:       c.HasCode(text),
		LanguageHint:  c.Language(text),
	}
}
