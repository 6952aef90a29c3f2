package wikitext

import (
	"html"
	"strings"
)

// Normalize prepares raw wiki-text for conversion: line endings become LF
// and HTML entities (&amp;, &quot;, ...) are unescaped. Dump text is often
// entity-escaped a second time beyond the XML layer.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return html.UnescapeString(text)
}

// FormatInline converts inline wiki markup to Markdown: section headings,
// bullet lists, and quote-run emphasis. It is idempotent on pure Markdown:
// running it over its own output yields the same text.
//
// Heading levels shift down by one because a single-equals heading is the
// page title, which the frontmatter already carries; title lines are
// dropped rather than re-emitted inline.
func FormatInline(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		converted, drop := convertHeading(line)
		if drop {
			continue
		}
		if converted == line {
			converted = convertListItem(line)
		}
		out = append(out, converted)
	}
	text = strings.Join(out, "\n")
	return convertEmphasis(text)
}

// convertHeading converts a ==Heading== line to a Markdown heading.
// The returned drop flag is true for single-equals title lines, which are
// removed from the body entirely. Lines that are not headings are
// returned unchanged.
func convertHeading(line string) (converted string, drop bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 2 || trimmed[0] != '=' {
		return line, false
	}

	lead := 0
	for lead < len(trimmed) && trimmed[lead] == '=' {
		lead++
	}
	trail := 0
	for trail < len(trimmed)-lead && trimmed[len(trimmed)-1-trail] == '=' {
		trail++
	}

	// A heading needs markers on both ends and text in between.
	if trail == 0 || lead+trail >= len(trimmed) {
		return line, false
	}

	level := min(lead, trail)
	title := strings.TrimSpace(trimmed[lead : len(trimmed)-trail])
	if title == "" {
		return line, false
	}
	if level == 1 {
		return "", true
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level-1) + " " + title, false
}

// convertListItem normalizes a wiki bullet list line: a leading run of N
// asterisks followed by a space becomes a Markdown dash item indented by
// 2*(N-1) spaces. The space requirement keeps the rule from firing on
// lines that begin with Markdown bold ("**text**"), which makes the
// conversion idempotent. Ordered-list hash markers are left untouched;
// rewriting them cannot be distinguished from mangling Markdown headings
// that this package itself emits ("## Title" is both an emitted level-2
// heading and a depth-2 ordered item in source markup), so a source
// "# item" line renders as a heading in the vault.
func convertListItem(line string) string {
	depth := 0
	for depth < len(line) && line[depth] == '*' {
		depth++
	}
	if depth == 0 || depth >= len(line) || line[depth] != ' ' {
		return line
	}
	return strings.Repeat("  ", depth-1) + "- " + strings.TrimLeft(line[depth:], " ")
}

// convertEmphasis converts quote-run emphasis to Markdown. Triple quotes
// are consumed before double quotes so that '''bold''' never partially
// matches as italic. Unbalanced runs pass through unchanged.
func convertEmphasis(text string) string {
	text = replacePairs(text, "'''", "**")
	return replacePairs(text, "''", "*")
}

// replacePairs rewrites balanced marker pairs with repl. When a marker has
// no closing partner the remainder of the text is emitted as-is, which is
// the best-effort recovery policy for malformed emphasis.
func replacePairs(s, marker, repl string) string {
	var b strings.Builder
	for {
		open := strings.Index(s, marker)
		if open < 0 {
			b.WriteString(s)
			break
		}
		rest := open + len(marker)
		length := strings.Index(s[rest:], marker)
		if length < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:open])
		b.WriteString(repl)
		b.WriteString(s[rest : rest+length])
		b.WriteString(repl)
		s = s[rest+length+len(marker):]
	}
	return b.String()
}

// StripRefs removes <ref>...</ref> citations and self-closing <ref/> tags.
// MediaWiki reference footnotes have no vault equivalent; the removed
// count is returned so the caller can report how many were dropped.
func StripRefs(text string) (string, int) {
	var b strings.Builder
	removed := 0
	for {
		lower := strings.ToLower(text)
		start := strings.Index(lower, "<ref")
		if start < 0 {
			b.WriteString(text)
			break
		}
		tagEnd := strings.IndexByte(text[start:], '>')
		if tagEnd < 0 {
			// Unterminated tag: pass the remainder through.
			b.WriteString(text)
			break
		}
		tagEnd += start
		b.WriteString(text[:start])

		if text[tagEnd-1] == '/' {
			// Self-closing <ref name="..."/>.
			text = text[tagEnd+1:]
			removed++
			continue
		}

		close := strings.Index(lower[tagEnd:], "</ref>")
		if close < 0 {
			// No closing tag: drop only the opening tag.
			text = text[tagEnd+1:]
			removed++
			continue
		}
		text = text[tagEnd+close+len("</ref>"):]
		removed++
	}
	return b.String(), removed
}
