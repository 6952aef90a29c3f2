package wikitext

import "strings"

// ExtractCategories strips every [[Category:Name]] declaration from text
// and returns the raw category names in order of appearance. Category
// tokens are metadata, not visible content, so nothing replaces them in
// the body. An optional sort key after a pipe ([[Category:Name|key]])
// is discarded. Names are returned unnormalized; the caller's tag set
// applies lowercasing and separator rules.
func ExtractCategories(text string) (string, []string) {
	var names []string
	var b strings.Builder

	for {
		start, end, ok := findLink(text)
		if !ok {
			b.WriteString(text)
			break
		}
		inner := text[start+2 : end-2]
		name, isCategory := categoryName(inner)
		if !isCategory {
			// Leave non-category links for the link resolver.
			b.WriteString(text[:end])
			text = text[end:]
			continue
		}
		if name != "" {
			names = append(names, name)
		}
		b.WriteString(text[:start])
		text = text[end:]
	}
	return b.String(), names
}

// categoryName reports whether a link body is a category declaration,
// returning the category name when it is.
func categoryName(inner string) (string, bool) {
	target := strings.TrimSpace(inner)
	if pipe := strings.IndexByte(target, '|'); pipe >= 0 {
		target = target[:pipe]
	}
	const prefix = "category:"
	if !strings.HasPrefix(strings.ToLower(target), prefix) {
		return "", false
	}
	return strings.TrimSpace(target[len(prefix):]), true
}
