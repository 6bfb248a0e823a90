package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔════════════════════════════════════════════════════════╗
    ║ ██╗ ██████╗ ██████╗ ██████╗  ██████╗ ███████╗██╗██╗     ║
    ║ ██║██╔════╝ ██╔══██╗██╔══██╗██╔═══██╗██╔════╝██║██║     ║
    ║ ██║██║  ███╗██████╔╝██████╔╝██║   ██║█████╗  ██║██║     ║
    ║ ██║██║   ██║██╔═══╝ ██╔══██╗██║   ██║██╔══╝  ██║██║     ║
    ║ ██║╚██████╔╝██║     ██║  ██║╚██████╔╝██║     ██║███████╗║
    ║ ╚═╝ ╚═════╝ ╚═╝     ╚═╝  ╚═╝ ╚═════╝ ╚═╝     ╚═╝╚══════╝║
    ║        PROFILE ANALYTICS - ENGAGEMENT EXTRACTION          ║
    ╚════════════════════════════════════════════════════════╝
`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

var (
	outputMu sync.Mutex
	output   io.Writer = os.Stdout
)

// SetOutput redirects terminal output
func SetOutput(w io.Writer) {
	outputMu.Lock()
	defer outputMu.Unlock()
	output = w
}

// SetQuiet discards all terminal output when quiet is true
func SetQuiet(quiet bool) {
	if quiet {
		SetOutput(io.Discard)
		return
	}
	SetOutput(os.Stdout)
}

// Output returns the current terminal writer
func Output() io.Writer {
	outputMu.Lock()
	defer outputMu.Unlock()
	return output
}

func printf(format string, args ...interface{}) {
	fmt.Fprintf(Output(), format, args...)
}

func printLine(msg string) {
	fmt.Fprintln(Output(), msg)
}

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	printf("%s", Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		printLine(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		printLine(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	printLine(Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		printLine(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		printLine(Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	printLine(Magenta(msg))
}
