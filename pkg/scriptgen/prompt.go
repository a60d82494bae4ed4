package scriptgen

import (
	"fmt"
	"regexp"
	"strings"
)

const defaultSentences = 8

const promptTemplate = `You are writing the narration script for a short video.

Topic: %s

Write exactly %d sentences of spoken narration about the topic.
Rules:
- Plain prose only. No markdown, no headings, no bullet points, no emoji.
- No stage directions, sound cues or speaker labels.
- Every sentence ends with terminal punctuation.
- Keep each sentence short enough to speak in one breath.

Return only the script text.`

func buildPrompt(topic string, sentences int) string {
	if sentences <= 0 {
		sentences = defaultSentences
	}
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(topic), sentences)
}

var listItemRe = regexp.MustCompile(`^\d+[.)]\s+`)

// cleanScript strips the markdown wrapping models add despite instructions:
// code fences, headings, bullet and numbered list markers, blank lines.
func cleanScript(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Drop a language tag on the fence line
		if i := strings.Index(text, "\n"); i != -1 && len(strings.Fields(text[:i])) <= 1 {
			text = text[i+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	lines := strings.Split(text, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "#")
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		line = listItemRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}
