package main

import (
	"regexp"
	"strings"
)

var (
	annotationRegex  = regexp.MustCompile(`[\(\[].*?[\)\]]`)
	labelPrefixRegex = regexp.MustCompile(`(?im)^(Hook|Lesson|Reflection|Post|Body):`)
)

// sanitizePost cleans up a generated post before review and publication:
// markdown emphasis markers, bracketed annotations, leading label prefixes,
// and any forbidden phrase (case-insensitive) are stripped. Forbidden
// phrases are the internal narrative labels that must never leak into the
// published text.
func sanitizePost(text string, forbiddenPhrases []string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "*", "")
	text = annotationRegex.ReplaceAllString(text, "")
	text = labelPrefixRegex.ReplaceAllString(text, "")

	for _, phrase := range forbiddenPhrases {
		if phrase == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase))
		text = re.ReplaceAllString(text, "")
	}

	return strings.TrimSpace(text)
}
