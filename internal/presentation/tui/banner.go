package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Wayfinder ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Teal to green, one step per line
	lines := []struct {
		text  string
		color string
	}{
		{` __      __              __ _           _`, "#22d3ee"},
		{` \ \    / /_ _ _  _ ___ / _(_)_ _  __| |___ _ _`, "#2dd4bf"},
		{`  \ \/\/ / _' | || |___|  _| | ' \/ _' / -_) '_|`, "#34d399"},
		{`   \_/\_/\__,_|\_, |    |_| |_|_||_\__,_\___|_|`, "#4ade80"},
		{`               |__/`, "#a3e635"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
