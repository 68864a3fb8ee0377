package vectordb

import (
	"fmt"
	"strings"
)

// FormatContext renders search results as the knowledge text handed to the
// language model: one section per document, most similar first.
func FormatContext(results []SearchResult) string {
	if len(results) == 0 {
		return "No relevant documents found."
	}

	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}

		md := r.Document.Metadata
		title := md.Name
		if title == "" {
			title = r.Document.ID
		}
		switch {
		case md.Role != "":
			sb.WriteString(fmt.Sprintf("[%s | %s | similarity %.2f]\n", title, md.Role, r.Similarity))
		case len(md.Gamemodes) > 0:
			sb.WriteString(fmt.Sprintf("[%s | %s | similarity %.2f]\n", title, strings.Join(md.Gamemodes, ", "), r.Similarity))
		default:
			sb.WriteString(fmt.Sprintf("[%s | similarity %.2f]\n", title, r.Similarity))
		}
		sb.WriteString(strings.TrimSpace(r.Document.Content))
	}
	return sb.String()
}
