package ui

import (
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)
)

// ConfigureColor enables color only when w is a terminal
func ConfigureColor(w io.Writer) {
	color.NoColor = !IsTerminal(w)
}

// IsTerminal reports whether w is attached to a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Bold makes text bold.
func Bold(text string) string {
	return boldColor.Sprint(text)
}

// Semantic color functions for common use cases
func SuccessText(text string) string {
	return successColor.Sprint(text)
}

func ErrorText(text string) string {
	return errorColor.Sprint(text)
}

func WarningText(text string) string {
	return warningColor.Sprint(text)
}

func InfoText(text string) string {
	return infoColor.Sprint(text)
}
