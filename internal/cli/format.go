package cli

import (
	"fmt"
	"strings"

	"github.com/ecalloway/claude-chat/internal/store"
)

// terminalPreviewLen is the preview budget for terminal listings.
const terminalPreviewLen = 60

// FormatList renders stored conversation summaries as an indexed table,
// most recent first.
func FormatList(summaries []store.Summary) string {
	if len(summaries) == 0 {
		return warningStyle.Render("No saved conversations found.") + "\n"
	}

	var total float64
	for _, s := range summaries {
		total += s.TotalCost
	}

	var sb strings.Builder
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Total conversations: %d", len(summaries))) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Total cost: $%.4f", total)) + "\n\n")

	for i, s := range summaries {
		created := s.Created.Format("2006-01-02 15:04")
		preview := store.TruncatePreview(s.Preview, terminalPreviewLen)
		if preview == "" {
			preview = "New conversation"
		}
		sb.WriteString(fmt.Sprintf("  %d. [%s] %s\n", i+1, created, s.Model))
		sb.WriteString(fmt.Sprintf("     %s\n", preview))
		sb.WriteString(fmt.Sprintf("     Cost: $%.4f\n", s.TotalCost))
	}
	return sb.String()
}
