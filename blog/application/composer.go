package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrBadComposition means the text model's answer could not be parsed into
// a usable post structure.
var ErrBadComposition = errors.New("model output is not a valid post structure")

// ComposedPost is the structure the text model must derive from free-form
// user input for smart create.
type ComposedPost struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
}

// buildComposePrompt asks the model to turn unstructured input into a
// complete post. The model must answer with bare JSON so parsing stays
// deterministic.
func buildComposePrompt(userInput, language string) string {
	if strings.TrimSpace(language) == "" {
		language = "English"
	}

	template := `You are an editor turning rough notes into a polished blog post written in %s.
Respond with a single JSON object and nothing else, using exactly these keys:
"title" (a concise, engaging headline), "content" (the full post in Markdown,
with headings and well-structured paragraphs), "excerpt" (one or two sentences,
at most 200 characters), "tags" (3 to 5 short topic strings).
Do not wrap the JSON in code fences or add commentary.

Notes:
%s`
	return fmt.Sprintf(template, language, strings.TrimSpace(userInput))
}

// buildTranslatePrompt asks the model to translate a post while preserving
// its markdown structure. The answer uses the same JSON shape as composing,
// minus tags.
func buildTranslatePrompt(title, content, excerpt, language string) string {
	source := ComposedPost{Title: title, Content: content, Excerpt: excerpt}
	encoded, _ := json.Marshal(source)

	template := `Translate the blog post in the JSON below into %s. Keep the Markdown
structure of "content" intact and keep the meaning faithful. Respond with a
single JSON object using the keys "title", "content" and "excerpt", without
code fences or commentary.

%s`
	return fmt.Sprintf(template, language, encoded)
}

// parseComposedPost extracts the JSON object from a model answer. Models
// occasionally wrap output in code fences or preamble despite instructions,
// so the first balanced object in the text is used.
func parseComposedPost(raw string) (*ComposedPost, error) {
	payload := extractJSONObject(raw)
	if payload == "" {
		return nil, fmt.Errorf("%w: no JSON object found", ErrBadComposition)
	}

	var composed ComposedPost
	if err := json.Unmarshal([]byte(payload), &composed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadComposition, err)
	}

	composed.Title = strings.TrimSpace(composed.Title)
	composed.Content = strings.TrimSpace(composed.Content)
	composed.Excerpt = strings.TrimSpace(composed.Excerpt)
	if composed.Title == "" || composed.Content == "" {
		return nil, fmt.Errorf("%w: missing title or content", ErrBadComposition)
	}

	var tags []string
	for _, tag := range composed.Tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	composed.Tags = tags

	return &composed, nil
}

// extractJSONObject returns the first balanced top-level JSON object in the
// text, tracking strings so braces inside values do not confuse the scan.
func extractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
