package advisor

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// ToHTML converts generated markdown into an HTML fragment.
func ToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
