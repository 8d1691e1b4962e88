// Package text is a line-based prompt adapter for pipes and dumb terminals.
//
// Select prompts accept the option number, value or label. Typing "esc" or
// closing the input stream cancels the current prompt.
package text

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/ports"
)

// CancelWord is the answer that cancels a prompt.
const CancelWord = "esc"

// Adapter implements ports.PromptAdapter over a reader and a writer.
type Adapter struct {
	reader  *bufio.Reader
	writer  io.Writer
	maxSize int

	lines     chan line
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

type line struct {
	text string
	err  error
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithMaxInputSize overrides DefaultMaxInputSize.
func WithMaxInputSize(n int) Option {
	return func(a *Adapter) { a.maxSize = n }
}

// New creates an adapter. Nil streams default to stdin and stdout.
func New(r io.Reader, w io.Writer, opts ...Option) *Adapter {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	a := &Adapter{
		reader:  bufio.NewReader(r),
		writer:  w,
		maxSize: DefaultMaxInputSize,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) initPump() {
	a.startOnce.Do(func() {
		a.lines = make(chan line)
		go a.pump()
	})
}

// pump reads lines in the background so a blocked read never outlives a
// cancelled context. It stops once the adapter is closed, even with a line
// nobody is waiting for.
func (a *Adapter) pump() {
	defer close(a.lines)
	for {
		text, err := a.reader.ReadString('\n')
		if text != "" && !a.send(line{text: text}) {
			return
		}
		if err != nil {
			if err != io.EOF {
				a.send(line{err: err})
			}
			return
		}
	}
}

func (a *Adapter) send(l line) bool {
	select {
	case a.lines <- l:
		return true
	case <-a.done:
		return false
	}
}

// Close stops the background reader. Prompts after Close are cancelled.
func (a *Adapter) Close() error {
	a.closeOnce.Do(func() { close(a.done) })
	return nil
}

// readLine returns the sanitized answer, or ok=false on cancellation.
func (a *Adapter) readLine(ctx context.Context) (string, bool, error) {
	a.initPump()
	for {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		fmt.Fprint(a.writer, "> ")

		select {
		case <-ctx.Done():
			return "", false, ctx.Err()
		case <-a.done:
			fmt.Fprintln(a.writer)
			return "", false, nil
		case res, open := <-a.lines:
			if !open {
				fmt.Fprintln(a.writer)
				return "", false, nil
			}
			if res.err != nil {
				return "", false, res.err
			}
			clean, err := Sanitize(res.text, a.maxSize)
			if err != nil {
				fmt.Fprintf(a.writer, "Error: %v. Please try again.\n", err)
				continue
			}
			if strings.EqualFold(clean, CancelWord) {
				return "", false, nil
			}
			return clean, true, nil
		}
	}
}

// Select prints numbered options and reads a choice.
func (a *Adapter) Select(ctx context.Context, message string, options []domain.Option) (any, error) {
	fmt.Fprintln(a.writer, message)
	for i, o := range options {
		fmt.Fprintf(a.writer, "  %d) %s\n", i+1, label(o))
	}

	for {
		answer, ok, err := a.readLine(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return ports.Cancelled, nil
		}
		if value, found := match(answer, options); found {
			return value, nil
		}
		fmt.Fprintf(a.writer, "Error: %q is not one of the options. Please try again.\n", answer)
	}
}

// Confirm reads y/yes or n/no; an empty answer keeps initial.
func (a *Adapter) Confirm(ctx context.Context, message string, initial bool) (any, error) {
	hint := "[y/N]"
	if initial {
		hint = "[Y/n]"
	}
	fmt.Fprintf(a.writer, "%s %s\n", message, hint)

	for {
		answer, ok, err := a.readLine(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return ports.Cancelled, nil
		}
		switch strings.ToLower(answer) {
		case "":
			return initial, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(a.writer, "Error: answer y or n. Please try again.")
	}
}

// Text reads one line; an empty answer keeps initial.
func (a *Adapter) Text(ctx context.Context, message, placeholder, initial string) (any, error) {
	prompt := message
	if placeholder != "" {
		prompt += " (" + placeholder + ")"
	}
	if initial != "" {
		prompt += " [" + initial + "]"
	}
	fmt.Fprintln(a.writer, prompt)

	answer, ok, err := a.readLine(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return ports.Cancelled, nil
	}
	if answer == "" {
		return initial, nil
	}
	return answer, nil
}

// IsCancel reports whether v is the cancellation value.
func (a *Adapter) IsCancel(v any) bool {
	return ports.IsCancelled(v)
}

func label(o domain.Option) string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

func match(answer string, options []domain.Option) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		return options[n-1].Value, true
	}
	for _, o := range options {
		if o.Value == answer {
			return o.Value, true
		}
	}
	for _, o := range options {
		if strings.EqualFold(label(o), answer) || strings.EqualFold(o.Value, answer) {
			return o.Value, true
		}
	}
	return "", false
}

var _ ports.PromptAdapter = (*Adapter)(nil)
