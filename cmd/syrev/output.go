package main

import (
	"os"

	"github.com/fatih/color"
)

// Console palette: cyan for status lines, green for successful steps,
// yellow for notices, red for errors.
var (
	statusColor  = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	noticeColor  = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

func status(format string, args ...interface{}) {
	statusColor.Printf(format+"\n", args...)
}

func success(format string, args ...interface{}) {
	successColor.Printf(format+"\n", args...)
}

func notice(format string, args ...interface{}) {
	noticeColor.Printf(format+"\n", args...)
}

// exitWithError prints an error to stderr and exits with code.
func exitWithError(code int, format string, args ...interface{}) {
	errorColor.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(code)
}

// truncateString shortens s for display.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
