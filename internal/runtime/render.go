package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/jobflow/pkg/domain"
)

// render resolves the prompt's projections against the context and hands it
// to the adapter.
func (r *Runner[C]) render(ctx context.Context, p *domain.Prompt[C], c C) (any, error) {
	message := p.ResolveMessage(c)
	initial := p.ResolveInitial(c)

	switch p.Kind {
	case domain.PromptSelect:
		return r.prompts.Select(ctx, message, p.ResolveOptions(c))
	case domain.PromptConfirm:
		b, _ := initial.(bool)
		return r.prompts.Confirm(ctx, message, b)
	case domain.PromptText:
		s, _ := initial.(string)
		return r.prompts.Text(ctx, message, p.Placeholder, s)
	}
	return nil, fmt.Errorf("unknown prompt kind %q", p.Kind)
}
