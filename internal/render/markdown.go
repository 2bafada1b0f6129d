// Package render turns commit messages into HTML for API responses.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.Linkify,
	),
)

// MessageHTML renders a markdown commit message. Raw HTML in the message is
// not passed through.
func MessageHTML(message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(message), &buf); err != nil {
		return "", fmt.Errorf("failed to render message: %w", err)
	}
	return buf.String(), nil
}

// Subject returns the first line of a commit message.
func Subject(message string) string {
	subject, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return strings.TrimSpace(subject)
}
