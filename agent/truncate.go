package agent

import "fmt"

// DefaultToolResultMaxChars bounds the size of a single tool result fed
// back to the model, so context growth across iterations stays bounded.
const DefaultToolResultMaxChars = 8000

// TruncateToolResult applies head/tail character truncation to a tool
// result. The head and tail are kept because both the leading summary and
// the trailing totals of a result tend to matter; the middle is replaced
// with an explanatory marker so the model knows content was removed.
func TruncateToolResult(content string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultToolResultMaxChars
	}
	if len(content) <= maxChars {
		return content
	}

	half := maxChars / 2
	removed := len(content) - maxChars
	return content[:half] +
		fmt.Sprintf("\n\n[Tool result truncated: %d characters removed from the middle. "+
			"Re-run the tool with narrower input if you need the omitted part.]\n\n", removed) +
		content[len(content)-half:]
}
