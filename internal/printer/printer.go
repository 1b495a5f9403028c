package printer

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func init() {
	// Users can disable with NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Success prints a success line in green with a checkmark prefix
func Success(format string, a ...any) {
	green.Printf("✓ %s\n", fmt.Sprintf(format, a...))
}

// Warning prints a warning line in yellow
func Warning(format string, a ...any) {
	yellow.Printf("⚠️  %s\n", fmt.Sprintf(format, a...))
}

// Failure prints a failure line in red to stderr
func Failure(format string, a ...any) {
	red.Fprintf(os.Stderr, "✗ %s\n", fmt.Sprintf(format, a...))
}

// Step prints a step message with emphasis
func Step(format string, a ...any) {
	cyan.Printf("→ %s\n", fmt.Sprintf(format, a...))
}

// Error prints a titled error with its causes to stderr and returns a
// simple error for Cobra
func Error(title string, causes []error) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)
	for _, cause := range causes {
		fmt.Fprintf(os.Stderr, "  - %s\n", cause)
	}
	return fmt.Errorf("%s", title)
}
