package domain

// PromptKind selects how the adapter renders a prompt.
type PromptKind string

const (
	PromptSelect  PromptKind = "select"
	PromptConfirm PromptKind = "confirm"
	PromptText    PromptKind = "text"
)

// Option is one entry of a select prompt.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Prompt describes an interactive question.
//
// Message, options and initial value may be literal or computed from the
// flow context. The *Func projections must be pure: they read the context and
// never mutate it.
type Prompt[C any] struct {
	Kind PromptKind

	Message     string
	MessageFunc func(C) string

	Options     []Option
	OptionsFunc func(C) []Option

	// Initial is a bool for confirm prompts and a string for text prompts.
	Initial     any
	InitialFunc func(C) any

	// Placeholder is only used by text prompts.
	Placeholder string
}

// ResolveMessage returns the message for the given context.
func (p *Prompt[C]) ResolveMessage(c C) string {
	if p.MessageFunc != nil {
		return p.MessageFunc(c)
	}
	return p.Message
}

// ResolveOptions returns the options for the given context.
func (p *Prompt[C]) ResolveOptions(c C) []Option {
	if p.OptionsFunc != nil {
		return p.OptionsFunc(c)
	}
	return p.Options
}

// ResolveInitial returns the initial value for the given context.
func (p *Prompt[C]) ResolveInitial(c C) any {
	if p.InitialFunc != nil {
		return p.InitialFunc(c)
	}
	return p.Initial
}

// IsDynamic reports whether any part of the prompt depends on the context.
func (p *Prompt[C]) IsDynamic() bool {
	return p.MessageFunc != nil || p.OptionsFunc != nil || p.InitialFunc != nil
}
