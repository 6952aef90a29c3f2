package wikitext

import "strings"

// UnwrapParagraphs joins hard-wrapped prose lines into single-line
// paragraphs. Wiki authors wrap source lines at arbitrary widths while
// MediaWiki only breaks paragraphs on blank lines; after conversion the
// same rule keeps vault documents from rendering spurious line breaks.
//
// Lines inside fenced code blocks, blank lines, list items, and headings
// are kept exactly as written.
func UnwrapParagraphs(text string) string {
	lines := strings.Split(text, "\n")

	var out []string
	var buffer []string
	inCodeBlock := false

	flush := func() {
		if len(buffer) > 0 {
			out = append(out, strings.Join(buffer, " "))
			buffer = buffer[:0]
		}
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		if strings.HasPrefix(stripped, "```") || strings.HasPrefix(stripped, "~~~") {
			flush()
			inCodeBlock = !inCodeBlock
			out = append(out, strings.TrimRight(line, " \t"))
			continue
		}
		if inCodeBlock {
			out = append(out, line)
			continue
		}

		switch {
		case stripped == "":
			flush()
			out = append(out, "")
		case isBlockLine(stripped):
			flush()
			out = append(out, strings.TrimRight(line, " \t"))
		default:
			buffer = append(buffer, stripped)
		}
	}
	flush()

	return strings.Join(out, "\n")
}

// isBlockLine reports whether a line must keep its own line: list items,
// headings, block quotes, and table rows.
func isBlockLine(stripped string) bool {
	switch stripped[0] {
	case '-', '+', '#', '>', '|':
		return true
	case '*':
		// A bullet needs a following space; "*emphasis*" is prose.
		return len(stripped) > 1 && stripped[1] == ' '
	}
	// Numbered list items: "1. text".
	i := 0
	for i < len(stripped) && stripped[i] >= '0' && stripped[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(stripped) && stripped[i] == '.' && stripped[i+1] == ' '
}
