package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the moore ASCII banner.
func PrintBanner(w io.Writer, p termenv.Profile) {
	lines := []struct{ text, color string }{
		{" _ __ ___   ___   ___  _ __ ___ ", "#818cf8"},
		{"| '_ ` _ \\ / _ \\ / _ \\| '__/ _ \\", "#a78bfa"},
		{"| | | | | | (_) | (_) | | |  __/", "#c084fc"},
		{"|_| |_| |_|\\___/ \\___/|_|  \\___|", "#e879f9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
