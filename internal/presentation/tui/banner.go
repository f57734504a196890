package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the orderdesk banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.EnvColorProfile()
	// Dealership blue fading to teal.
	lines := []struct{ text, color string }{
		{"   ___          _           ___         _   ", "#1e40af"},
		{"  / _ \\ _ _ __| |___ _ _  |   \\ ___ __| |__", "#1d4ed8"},
		{" | (_) | '_/ _` / -_) '_| | |) / -_|_-< / /", "#0284c7"},
		{"  \\___/|_| \\__,_\\___|_|   |___/\\___/__/_\\_\\", "#0d9488"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
