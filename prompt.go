package main

import (
	"fmt"
	"strconv"
	"strings"
)

// lessonWindow is how many previous lessons the writer prompt carries.
const lessonWindow = 5

// rewriteDirective is appended to the writer prompt after a failed editorial
// review. Each retry demands the concrete elements the editor checks for.
const rewriteDirective = `
Rewrite with:
- One explicit wrong belief stated in first person
- One moment of confusion before the realization
- One concrete human or operational consequence
- Insight discovered, not explained
- Place exactly ONE sentence AFTER the line "The Moral 👇"
`

// buildWriterPrompt renders the writer user prompt from the embedded
// template. The act/theme/tech values are context for the model only; the
// template marks them as never-to-print and the sanitizer strips them if the
// model leaks them anyway.
func buildWriterPrompt(template string, act Act, episode int, theme Theme, tech string, prevLessons []string) (string, error) {
	required := []string{"{{.Act}}", "{{.Episode}}", "{{.Theme}}", "{{.Tech}}", "{{.Lessons}}"}
	for _, placeholder := range required {
		if !strings.Contains(template, placeholder) {
			return "", fmt.Errorf("writer user prompt template must contain %s variable", placeholder)
		}
	}

	prompt := strings.ReplaceAll(template, "{{.Act}}", act.Name)
	prompt = strings.ReplaceAll(prompt, "{{.Episode}}", strconv.Itoa(episode))
	prompt = strings.ReplaceAll(prompt, "{{.Theme}}", theme.Type)
	prompt = strings.ReplaceAll(prompt, "{{.Tech}}", tech)
	prompt = strings.ReplaceAll(prompt, "{{.Lessons}}", formatLessons(lastN(prevLessons, lessonWindow)))

	return prompt, nil
}

// formatLessons renders previous lessons as a bulleted block.
func formatLessons(lessons []string) string {
	if len(lessons) == 0 {
		return "- (none yet)"
	}
	var b strings.Builder
	for i, lesson := range lessons {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(lesson)
	}
	return b.String()
}

// buildEditorPrompt wraps the sanitized post for the editor call.
func buildEditorPrompt(post string) string {
	return "POST:\n" + post
}
