// Package huhprompt renders flow prompts as charmbracelet/huh forms.
package huhprompt

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"

	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/ports"
)

// Adapter is a ports.PromptAdapter backed by one single-field huh form per
// prompt. Esc and Ctrl+C abort the form, which is reported as a cancellation.
type Adapter struct {
	theme      *huh.Theme
	keymap     *huh.KeyMap
	accessible bool
	input      io.Reader
	output     io.Writer
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTheme overrides the default Charm theme.
func WithTheme(theme *huh.Theme) Option {
	return func(a *Adapter) { a.theme = theme }
}

// WithAccessible switches huh to its plain line-based mode.
func WithAccessible(on bool) Option {
	return func(a *Adapter) { a.accessible = on }
}

// WithIO redirects the form input and output.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(a *Adapter) {
		a.input = r
		a.output = w
	}
}

// New creates a huh prompt adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		theme:  huh.ThemeCharm(),
		keymap: Keymap(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Keymap is huh's default keymap with esc added to the quit binding.
func Keymap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "back"),
	)
	return km
}

func (a *Adapter) run(ctx context.Context, field huh.Field) (bool, error) {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(a.theme).
		WithKeyMap(a.keymap).
		WithAccessible(a.accessible).
		WithShowHelp(true)
	if a.input != nil {
		form = form.WithInput(a.input)
	}
	if a.output != nil {
		form = form.WithOutput(a.output)
	}

	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return true, nil
	}
	return false, err
}

// Select renders a single-choice list and returns the chosen value.
func (a *Adapter) Select(ctx context.Context, message string, options []domain.Option) (any, error) {
	var choice string
	field := huh.NewSelect[string]().
		Title(message).
		Options(Options(options)...).
		Value(&choice)

	cancelled, err := a.run(ctx, field)
	if err != nil {
		return nil, err
	}
	if cancelled {
		return ports.Cancelled, nil
	}
	return choice, nil
}

// Confirm renders a yes/no question.
func (a *Adapter) Confirm(ctx context.Context, message string, initial bool) (any, error) {
	answer := initial
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&answer)

	cancelled, err := a.run(ctx, field)
	if err != nil {
		return nil, err
	}
	if cancelled {
		return ports.Cancelled, nil
	}
	return answer, nil
}

// Text renders a single-line input.
func (a *Adapter) Text(ctx context.Context, message, placeholder, initial string) (any, error) {
	value := initial
	field := huh.NewInput().
		Title(message).
		Placeholder(placeholder).
		CharLimit(DefaultCharLimit).
		Value(&value)

	cancelled, err := a.run(ctx, field)
	if err != nil {
		return nil, err
	}
	if cancelled {
		return ports.Cancelled, nil
	}
	return value, nil
}

// IsCancel reports whether v is the cancellation value.
func (a *Adapter) IsCancel(v any) bool {
	return ports.IsCancelled(v)
}

// DefaultCharLimit bounds text answers.
const DefaultCharLimit = 4096

// Options converts flow options to huh options. An empty label falls back
// to the value.
func Options(options []domain.Option) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		label := o.Label
		if label == "" {
			label = o.Value
		}
		out = append(out, huh.NewOption(label, o.Value))
	}
	return out
}

var _ ports.PromptAdapter = (*Adapter)(nil)
