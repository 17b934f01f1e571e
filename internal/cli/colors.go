// Package cli is the interactive REPL client: splash screen, prompt loop,
// command history recall, and result display (spec.md §1 "out of scope
// external collaborator": ANSI color formatting and the splash/help/history
// UX are provided here, in the teacher's and original engine's style, not
// specified by the core query-engine contract).
package cli

import "github.com/fatih/color"

// ferrumRed matches the original engine's FERRUM_RED TrueColor constant
// (255, 87, 87). color.RGB returns a fresh *Color each call since Add
// mutates its receiver in place and a shared package-level instance would
// accumulate attributes across calls.
func ferrumRed() *color.Color { return color.RGB(255, 87, 87) }

// highlight renders text in the theme color, unbolded.
func highlight(text string) string {
	return ferrumRed().Sprint(text)
}

// highlightBold renders text in the theme color, bolded.
func highlightBold(text string) string {
	return ferrumRed().Add(color.Bold).Sprint(text)
}
