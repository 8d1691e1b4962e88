// Package tui holds the terminal styling shared by commands and flow handlers.
package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Warn prints a user diagnostic in warning colors.
// A nil writer discards the message.
func Warn(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String("! "+fmt.Sprintf(format, args...)).Foreground(out.Color("#f59e0b")))
}

// Info prints a neutral status line.
func Info(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String(fmt.Sprintf(format, args...)).Foreground(out.Color("#818cf8")))
}

// Success prints a confirmation line.
func Success(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	out := termenv.NewOutput(w)
	fmt.Fprintln(w, out.String(fmt.Sprintf(format, args...)).Foreground(out.Color("#34d399")).Bold())
}
