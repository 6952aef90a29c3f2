package wikitext

import (
	"strings"

	"github.com/nao1215/wikivault/internal/model"
)

// imageFieldKeys are infobox parameter names whose values name an image
// file rather than plain text. Values under these keys are routed to
// image reference resolution instead of inline formatting.
var imageFieldKeys = map[string]bool{
	"image":      true,
	"image_name": true,
	"img":        true,
	"picture":    true,
	"photo":      true,
	"logo":       true,
	"cover":      true,
	"map":        true,
}

// IsInfoboxName reports whether a template name identifies an
// infobox-style template: either the name starts with "Infobox"
// (case-insensitive, any of "Infobox X", "Infobox_X", "Infobox:X") or it
// appears in the configured set of known field-bearing templates.
func IsInfoboxName(name string, known []string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if strings.HasPrefix(lower, "infobox") {
		return true
	}
	for _, k := range known {
		if lower == strings.ToLower(strings.TrimSpace(k)) {
			return true
		}
	}
	return false
}

// ExtractInfobox scans text for the first template whose name satisfies
// match, removes it, and returns the extracted infobox. Field values are
// run back through link resolution and inline formatting before being
// stored, so they are Markdown by the time they reach the frontmatter.
// Links and image embeds found inside field values are recorded on the
// returned Infobox; values are a reference surface like the body, not a
// dead end.
//
// Only the first matching template becomes the page's structured metadata
// source; any later infobox-like templates are left as inline content.
// When no template matches, text is returned unchanged and found is false.
func ExtractInfobox(text, imageDir string, match func(name string) bool) (remaining string, box *model.Infobox, found bool) {
	from := 0
	for {
		start, end, ok := findTemplate(text, from)
		if !ok {
			return text, nil, false
		}
		inner := text[start+2 : end-2]
		segments := splitTopLevel(inner, '|')
		name := strings.TrimSpace(segments[0])
		if !match(name) {
			from = end
			continue
		}

		box = parseInfobox(name, segments[1:], imageDir)
		remaining = strings.TrimSpace(text[:start] + text[end:])
		return remaining, box, true
	}
}

// parseInfobox builds an Infobox from a matched template's name and its
// pipe-separated parameter segments.
func parseInfobox(name string, params []string, imageDir string) *model.Infobox {
	box := &model.Infobox{Type: infoboxType(name)}

	for _, param := range params {
		eq := strings.IndexByte(param, '=')
		if eq < 0 {
			// Positional parameter: infoboxes are keyed templates, so a
			// bare value carries no usable field name. Skip it.
			continue
		}

		key := normalizeFieldKey(param[:eq])
		value := strings.TrimSpace(param[eq+1:])
		if key == "" || value == "" {
			continue
		}

		if imageFieldKeys[key] {
			ref := ImageRef(imageFileName(value), imageDir)
			box.Fields = append(box.Fields, model.InfoboxField{Key: key, Value: ref.Path})
			if box.Image == nil {
				box.Image = &ref
			}
			continue
		}

		formatted, links, images := ResolveLinks(value, imageDir)
		formatted = convertEmphasis(formatted)
		box.Fields = append(box.Fields, model.InfoboxField{Key: key, Value: formatted})
		box.Links = append(box.Links, links...)
		box.ValueImages = append(box.ValueImages, images...)
	}

	return box
}

// infoboxType derives the infobox type name from the template name:
// the "Infobox" prefix and its separator are stripped, leaving e.g.
// "Character" from "Infobox Character" or "Infobox_Character".
// Known templates without the prefix keep their full name.
func infoboxType(name string) string {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "infobox") {
		name = name[len("infobox"):]
	}
	return strings.Trim(name, " _:")
}

// normalizeFieldKey normalizes an infobox parameter name: trimmed,
// lowercased, colons removed, interior spaces collapsed to underscores.
func normalizeFieldKey(key string) string {
	key = strings.ReplaceAll(key, ":", "")
	return model.NormalizeTag(key)
}

// imageFileName extracts a bare filename from an image field value, which
// may be written as "Foo.png", "File:Foo.png", or "[[File:Foo.png|...]]".
func imageFileName(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "[[")
	value = strings.TrimSuffix(value, "]]")
	if pipe := strings.IndexByte(value, '|'); pipe >= 0 {
		value = value[:pipe]
	}
	lower := strings.ToLower(value)
	for _, prefix := range []string{"file:", "image:"} {
		if strings.HasPrefix(lower, prefix) {
			value = value[len(prefix):]
			break
		}
	}
	return strings.TrimSpace(value)
}

// DropTemplates removes every top-level {{...}} template whose name does
// not satisfy keep, returning the cleaned text and the names of dropped
// templates so the caller can log them. Templates satisfying keep are
// passed through literally. An unbalanced opening brace pair ends the
// scan and the remainder passes through untouched.
func DropTemplates(text string, keep func(name string) bool) (string, []string) {
	var dropped []string
	var b strings.Builder
	from := 0
	for {
		start, end, ok := findTemplate(text, from)
		if !ok {
			b.WriteString(text[from:])
			break
		}
		name := templateName(text[start+2 : end-2])
		if keep != nil && keep(name) {
			b.WriteString(text[from:end])
			from = end
			continue
		}
		b.WriteString(text[from:start])
		dropped = append(dropped, name)
		from = end
	}
	return b.String(), dropped
}

// templateName returns the name portion of a template body: everything up
// to the first top-level pipe, whitespace-trimmed.
func templateName(inner string) string {
	segments := splitTopLevel(inner, '|')
	return strings.TrimSpace(segments[0])
}

// findTemplate locates the first balanced {{...}} at or after from.
// The returned end index is exclusive (one past the closing braces).
// ok is false when no opening braces remain or the braces never balance,
// in which case the caller leaves the remainder untouched.
func findTemplate(text string, from int) (start, end int, ok bool) {
	rel := strings.Index(text[from:], "{{")
	if rel < 0 {
		return 0, 0, false
	}
	start = from + rel

	depth := 0
	i := start
	for i < len(text)-1 {
		switch {
		case text[i] == '{' && text[i+1] == '{':
			depth++
			i += 2
		case text[i] == '}' && text[i+1] == '}':
			depth--
			i += 2
			if depth == 0 {
				return start, i, true
			}
		default:
			i++
		}
	}
	return 0, 0, false
}

// splitTopLevel splits s on sep, ignoring separators nested inside
// {{...}} template bodies or [[...]] links. Infobox parameter values
// routinely contain piped links, so a naive split would corrupt them.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	var braces, brackets int
	last := 0
	for i := 0; i < len(s); i++ {
		switch {
		case i+1 < len(s) && s[i] == '{' && s[i+1] == '{':
			braces++
			i++
		case i+1 < len(s) && s[i] == '}' && s[i+1] == '}':
			braces--
			i++
		case i+1 < len(s) && s[i] == '[' && s[i+1] == '[':
			brackets++
			i++
		case i+1 < len(s) && s[i] == ']' && s[i+1] == ']':
			brackets--
			i++
		case s[i] == sep && braces == 0 && brackets == 0:
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	parts = append(parts, s[last:])
	return parts
}
