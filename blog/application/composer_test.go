package application

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseComposedPost(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *ComposedPost
	}{
		{
			name: "bare json",
			raw:  `{"title":"Hello","content":"# Hello\n\nBody.","excerpt":"Short.","tags":["go","web"]}`,
			expected: &ComposedPost{
				Title:   "Hello",
				Content: "# Hello\n\nBody.",
				Excerpt: "Short.",
				Tags:    []string{"go", "web"},
			},
		},
		{
			name: "code fenced",
			raw:  "```json\n{\"title\":\"Fenced\",\"content\":\"Body\"}\n```",
			expected: &ComposedPost{
				Title:   "Fenced",
				Content: "Body",
			},
		},
		{
			name: "preamble and trailing chatter",
			raw:  "Sure, here is the post:\n{\"title\":\"Chatty\",\"content\":\"Body\"}\nLet me know!",
			expected: &ComposedPost{
				Title:   "Chatty",
				Content: "Body",
			},
		},
		{
			name: "braces inside string values",
			raw:  `{"title":"Braces","content":"code: func() { return }","excerpt":""}`,
			expected: &ComposedPost{
				Title:   "Braces",
				Content: "code: func() { return }",
			},
		},
		{
			name: "whitespace and empty tags dropped",
			raw:  `{"title":"  Trimmed  ","content":" Body ","tags":["go","  "," web "]}`,
			expected: &ComposedPost{
				Title:   "Trimmed",
				Content: "Body",
				Tags:    []string{"go", "web"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			composed, err := parseComposedPost(tt.raw)
			if err != nil {
				t.Fatalf("parseComposedPost() error: %v", err)
			}
			if !reflect.DeepEqual(composed, tt.expected) {
				t.Errorf("parseComposedPost() = %+v, want %+v", composed, tt.expected)
			}
		})
	}
}

func TestParseComposedPostErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no json at all", raw: "I could not produce a post."},
		{name: "unbalanced object", raw: `{"title":"Broken","content":"Body"`},
		{name: "invalid json", raw: `{"title": Broken}`},
		{name: "missing title", raw: `{"content":"Body"}`},
		{name: "missing content", raw: `{"title":"Only title"}`},
		{name: "whitespace title", raw: `{"title":"   ","content":"Body"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseComposedPost(tt.raw)
			if !errors.Is(err, ErrBadComposition) {
				t.Errorf("parseComposedPost() error = %v, want ErrBadComposition", err)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "plain object", text: `{"a":1}`, expected: `{"a":1}`},
		{name: "nested object", text: `before {"a":{"b":2}} after`, expected: `{"a":{"b":2}}`},
		{name: "escaped quote in string", text: `{"a":"say \"}\" loudly"}`, expected: `{"a":"say \"}\" loudly"}`},
		{name: "no object", text: "nothing here", expected: ""},
		{name: "never closed", text: `{"a":1`, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONObject(tt.text); got != tt.expected {
				t.Errorf("extractJSONObject() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildComposePromptDefaultsLanguage(t *testing.T) {
	prompt := buildComposePrompt("notes about goroutines", "")

	if !strings.Contains(prompt, "written in English") {
		t.Errorf("buildComposePrompt() = %q, want English default", prompt)
	}
	if !strings.Contains(prompt, "notes about goroutines") {
		t.Errorf("buildComposePrompt() missing user input")
	}
}

func TestBuildTranslatePromptEmbedsPost(t *testing.T) {
	prompt := buildTranslatePrompt("Title", "# Body", "Short", "French")

	if !strings.Contains(prompt, "into French") {
		t.Errorf("buildTranslatePrompt() = %q, want target language", prompt)
	}
	if !strings.Contains(prompt, `"title":"Title"`) {
		t.Errorf("buildTranslatePrompt() missing encoded source post")
	}
}
