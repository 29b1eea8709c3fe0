// Package ui renders the short status lines issue-manager prints for a run.
package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Status symbols
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolNext    = "→"
	SymbolWarning = "!"
)

// SectionDivider creates a section divider as wide as the title's display width.
func SectionDivider(title string) string {
	divider := strings.Repeat("─", runewidth.StringWidth(title))
	return fmt.Sprintf("%s\n%s", Bold(title), divider)
}

// Success formats a success message with the success symbol.
func Success(message string) string {
	return fmt.Sprintf("  %s %s", SuccessText(SymbolSuccess), message)
}

// Error formats an error message with the error symbol.
func Error(message string) string {
	return fmt.Sprintf("  %s %s", ErrorText(SymbolError), message)
}

// Next formats a next step message with the next symbol.
func Next(message string) string {
	return fmt.Sprintf("%s %s", InfoText(SymbolNext), message)
}

// Warning formats a warning message with the warning symbol.
func Warning(message string) string {
	return fmt.Sprintf("%s %s", WarningText(SymbolWarning), message)
}
