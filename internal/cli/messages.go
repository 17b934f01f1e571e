package cli

import "fmt"

// highlightArgument highlights a piece of text to call it out to the user,
// e.g. a command name or database name (grounded on the original engine's
// messages.rs highlight_argument).
func highlightArgument(argument string) string {
	return highlight(argument)
}

// systemMessage formats a "[source] message" line, source padded and bolded
// in the theme color (grounded on messages.rs system_message).
func systemMessage(source, message string) string {
	return fmt.Sprintf("[%s] %s", highlightBold(fmt.Sprintf("%-6s", source)), message)
}
