package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the remap ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" _ __ ___ _ __ ___   __ _ _ __", "#818cf8"},
		{"| '__/ _ \\ '_ ` _ \\ / _` | '_ \\", "#a78bfa"},
		{"| | |  __/ | | | | | (_| | |_) |", "#c084fc"},
		{"|_|  \\___|_| |_| |_|\\__,_| .__/", "#e879f9"},
		{"                         |_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
