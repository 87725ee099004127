package ui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// markdownWidth is the word-wrap column for rendered reports.
const markdownWidth = 100

// RenderMarkdown renders md for the terminal. In headless mode, or with
// colors disabled, md is returned unchanged so it can be piped into files.
func RenderMarkdown(theme *Theme, hm *HeadlessManager, md string) (string, error) {
	if hm.IsHeadless() || theme.NoColor {
		return md, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWidth),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
