package ports

import (
	"context"

	"github.com/aretw0/jobflow/pkg/domain"
)

// PromptAdapter is the terminal-rendering boundary the runner depends on.
//
// Each method returns the raw answer (string for select/text, bool for
// confirm) or a value for which IsCancel reports true. Errors are reserved
// for I/O failures and propagate out of the runner unchanged.
type PromptAdapter interface {
	Select(ctx context.Context, message string, options []domain.Option) (any, error)
	Confirm(ctx context.Context, message string, initial bool) (any, error)
	Text(ctx context.Context, message, placeholder, initial string) (any, error)
	IsCancel(value any) bool
}

type cancelled struct{}

// Cancelled is the value adapters in this module return when the user
// dismisses a prompt.
var Cancelled any = cancelled{}

// IsCancelled reports whether v is the shared Cancelled value.
func IsCancelled(v any) bool {
	_, ok := v.(cancelled)
	return ok
}
