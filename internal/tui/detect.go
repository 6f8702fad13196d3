package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents how fscache talks to the terminal.
type Mode int

const (
	// ModeNonInteractive prints plain lines; used in CI, scripts and redirected output.
	ModeNonInteractive Mode = iota
	// ModeInteractive animates progress in place.
	ModeInteractive
)

// DetectMode determines whether progress can be animated.
//
// Returns ModeNonInteractive if:
//   - FSCACHE_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
//   - stderr, where progress is drawn, is not a terminal
//
// Returns ModeInteractive otherwise.
func DetectMode() Mode {
	if os.Getenv("FSCACHE_NON_INTERACTIVE") == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}

	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return ModeNonInteractive
	}

	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
