package main

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// profileFor disables colour when w is not a terminal.
func profileFor(w io.Writer) termenv.Profile {
	if !isTerminal(w) {
		return termenv.Ascii
	}
	return termenv.NewOutput(w.(*os.File)).Profile
}
