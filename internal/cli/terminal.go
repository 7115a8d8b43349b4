package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/vijay-prabhu/jobad-analyser/internal/output"
)

// Spinner frames for animated progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Terminal provides terminal-aware output utilities for one file
type Terminal struct {
	IsTerminal   bool
	UseColor     bool
	file         *os.File
	spinnerIndex int
}

// NewTerminal inspects f. Colour is used only on a terminal, and never when
// noColor is set or NO_COLOR is present in the environment.
func NewTerminal(f *os.File, noColor bool) *Terminal {
	isTerminal := term.IsTerminal(int(f.Fd()))
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	return &Terminal{
		IsTerminal: isTerminal,
		UseColor:   isTerminal && !noColor && !noColorEnv,
		file:       f,
	}
}

// ClearLine clears the current line (terminal only)
func (t *Terminal) ClearLine() {
	if t.IsTerminal {
		fmt.Fprint(t.file, "\r\033[K")
	}
}

// Progress redraws a one-line status with a spinner (terminal only)
func (t *Terminal) Progress(format string, args ...interface{}) {
	if !t.IsTerminal {
		return
	}
	t.ClearLine()
	fmt.Fprintf(t.file, "%s %s", t.Spinner(), fmt.Sprintf(format, args...))
}

// Spinner returns the next spinner frame
func (t *Terminal) Spinner() string {
	if !t.IsTerminal {
		return ""
	}
	frame := spinnerFrames[t.spinnerIndex]
	t.spinnerIndex = (t.spinnerIndex + 1) % len(spinnerFrames)
	return frame
}

// Color wraps text in ANSI color codes when colour is enabled
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return color + text + output.ColorReset
}
