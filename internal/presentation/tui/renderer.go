package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Rendering falls back to the raw markdown when the terminal renderer
// cannot be created.
func NewRenderer(width int) func(string) string {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)

	return func(markdown string) string {
		if err != nil {
			return markdown
		}
		out, rerr := r.Render(markdown)
		if rerr != nil {
			return markdown
		}
		return out
	}
}
