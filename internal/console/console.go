// Package console controls terminal color output.
package console

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// SetNoColor applies the color policy: --no-color, the NO_COLOR
// convention, or a non-TTY profile all disable styling globally.
func SetNoColor(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}
