package cli

import (
	"os"

	"golang.org/x/term"

	"github.com/aretw0/jobflow/pkg/adapters/huhprompt"
	"github.com/aretw0/jobflow/pkg/adapters/text"
	"github.com/aretw0/jobflow/pkg/ports"
)

// IsInteractive reports whether both streams are terminals.
func IsInteractive(in, out *os.File) bool {
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

// TerminalWidth returns the width of out, or 0 when it is not a terminal.
func TerminalWidth(out *os.File) int {
	if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
		return w
	}
	return 0
}

// NewPrompts picks huh forms on a terminal and the line adapter otherwise.
func NewPrompts(in, out *os.File, plain bool) ports.PromptAdapter {
	if plain || !IsInteractive(in, out) {
		return text.New(in, out)
	}
	return huhprompt.New(huhprompt.WithIO(in, out))
}
