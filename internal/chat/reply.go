package chat

import "strings"

// cleanReply trims a text reply and removes a markdown code fence or one
// pair of wrapping quotes that models sometimes add around a rewritten prompt.
func cleanReply(text string) string {
	text = strings.TrimSpace(stripFences(text))
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}
	return text
}

// stripFences returns the body of a ``` fenced block, or text unchanged when
// it does not start with a fence.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return strings.Trim(text, "`")
	}

	end := len(lines)
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			end = i
			break
		}
	}
	return strings.Join(lines[1:end], "\n")
}
