// Package ui holds the ANSI styling used by CLI output.
package ui

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// Bold renders a heading
func Bold(s string) string {
	return ColorBold + s + ColorReset
}

// Success renders a count or message that went well
func Success(s string) string {
	return ColorGreen + s + ColorReset
}

// Info renders secondary details such as output paths
func Info(s string) string {
	return ColorDim + ColorYellow + s + ColorReset
}

// Error renders failures
func Error(s string) string {
	return ColorRed + s + ColorReset
}
