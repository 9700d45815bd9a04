package llm

import (
	"errors"
	"strings"
)

// ErrNoJSONObject indicates a model answer contained no JSON object
var ErrNoJSONObject = errors.New("no JSON object found in response")

// ExtractJSONObject returns the outermost {...} span of a model answer,
// tolerating markdown fences and prose around it
func ExtractJSONObject(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return "", ErrNoJSONObject
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return "", ErrNoJSONObject
	}
	return text[start : end+1], nil
}
