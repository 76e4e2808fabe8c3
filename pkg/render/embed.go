// Package render holds the character-budget helpers for embed replies.
package render

import "strings"

const (
	// EmbedTotalLimit is the platform cap on total embed characters.
	EmbedTotalLimit = 6000
	// ellipsisReserve keeps room for the truncation marker.
	ellipsisReserve = 4
	// DescriptionLimit is the largest list that still fits one description.
	DescriptionLimit = 2048
	// FieldLimit is the per-field character cap.
	FieldLimit = 1024

	Ellipsis = "..."
)

// JoinedLength is the character count of lines joined with newlines, which
// is what the platform counts against its caps.
func JoinedLength(lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	total := len(lines) - 1
	for _, line := range lines {
		total += len(line)
	}
	return total
}

// TruncateLines drops trailing entries until the joined total fits the
// embed budget minus the reserved marker space, appending the ellipsis
// exactly once if anything was dropped.
func TruncateLines(lines []string) []string {
	budget := EmbedTotalLimit - ellipsisReserve
	truncated := false
	for JoinedLength(lines) > budget {
		truncated = true
		lines = lines[:len(lines)-1]
	}
	if truncated {
		lines = append(lines, Ellipsis)
	}
	return lines
}

// SplitLinesByLength joins lines into chunks no longer than max, never
// splitting inside a line.
func SplitLinesByLength(lines []string, max int) []string {
	var chunks []string
	var b strings.Builder

	for _, line := range lines {
		// +1 for the joining newline.
		if b.Len() > 0 && b.Len()+1+len(line) > max {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}

// FitsDescription reports whether the list goes into a single free-text
// body rather than multiple fields.
func FitsDescription(lines []string) bool {
	return JoinedLength(lines) <= DescriptionLimit
}
