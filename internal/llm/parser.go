package llm

import (
	"regexp"
	"strings"
)

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// CleanMarkdownWrapper strips the code fences models like to wrap JSON
// in, plus any leading or trailing prose.
func CleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	return content
}

// ExtractJSONObject pulls the first JSON object out of a response that
// may carry surrounding commentary. Returns the raw object and whether
// one was found.
func ExtractJSONObject(content string) (string, bool) {
	content = CleanMarkdownWrapper(content)
	if strings.HasPrefix(content, "{") && strings.HasSuffix(content, "}") {
		return content, true
	}
	match := jsonObjectRe.FindString(content)
	if match == "" {
		return "", false
	}
	return match, true
}
