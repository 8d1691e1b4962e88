package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the jobflow banner to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"     _       _      __ _               ", "#818cf8"},
		{"    (_) ___ | |__  / _| | _____      __", "#a78bfa"},
		{"    | |/ _ \\| '_ \\| |_| |/ _ \\ \\ /\\ / /", "#c084fc"},
		{"    | | (_) | |_) |  _| | (_) \\ V  V / ", "#e879f9"},
		{"   _/ |\\___/|_.__/|_| |_|\\___/ \\_/\\_/  ", "#f472b6"},
		{"  |__/                                 ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, out.String("  "+version).Faint())
	}
	fmt.Fprintln(w)
}
