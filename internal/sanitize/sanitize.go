// Package sanitize cleans agent-injected markup out of chat text before it
// is classified, so wrapper tags and reminders do not skew categories or
// content lengths.
package sanitize

import (
	"regexp"
	"strings"
)

// injectedBlock matches wrappers whose content the student never wrote.
var injectedBlock = regexp.MustCompile(
	`(?s)<(system-reminder|local-command-caveat|thinking|persisted-output|task-notification)[^>]*>.*?</(?:system-reminder|local-command-caveat|thinking|persisted-output|task-notification)>`,
)

// wrapperTag matches tags whose content is kept.
var wrapperTag = regexp.MustCompile(
	`</?(?:local-command-(?:stdout|stderr|caveat)|command-(?:output|name|args|message)|` +
		`system-reminder|task-(?:id|notification)|persisted-output|thinking|tool-use-id|` +
		`tool|skill-name|plugin-id)[^>]*>`,
)

var blankRun = regexp.MustCompile(`\n{3,}`)

// StripTags removes wrapper tags but keeps their content.
func StripTags(text string) string {
	return strings.TrimSpace(wrapperTag.ReplaceAllString(text, ""))
}

// Message drops injected blocks entirely, strips remaining wrapper tags
// and collapses the blank lines left behind.
func Message(text string) string {
	text = injectedBlock.ReplaceAllString(text, "")
	text = StripTags(text)
	return blankRun.ReplaceAllString(text, "\n\n")
}

// IsCommand reports whether text is a slash-command invocation such as
// "/clear" rather than a question for the assistant.
func IsCommand(text string) bool {
	return strings.Contains(text, "<command-name>/")
}
