package wikitext

import (
	"path"
	"strings"

	"github.com/nao1215/wikivault/internal/model"
)

// renderParams are image link segments that control MediaWiki rendering
// rather than carrying a caption. They are discarded during conversion.
var renderParams = map[string]bool{
	"thumb":     true,
	"thumbnail": true,
	"frame":     true,
	"framed":    true,
	"frameless": true,
	"border":    true,
	"left":      true,
	"right":     true,
	"center":    true,
	"centre":    true,
	"none":      true,
	"baseline":  true,
	"middle":    true,
	"top":       true,
	"bottom":    true,
}

// ImageRef returns the deterministic local reference for a wiki image
// filename: the vault-relative path joins the image directory with the
// filename, spaces replaced by underscores. The same filename always maps
// to the same path, so repeated references share one download.
func ImageRef(name, imageDir string) model.ImageReference {
	name = strings.TrimSpace(name)
	local := strings.ReplaceAll(name, " ", "_")
	return model.ImageReference{
		Name: name,
		Path: path.Join(imageDir, local),
	}
}

// ResolveLinks rewrites every [[...]] token in text. Internal links keep
// their wikilink form with whitespace collapsed and the alias preserved
// verbatim; image links become Markdown image embeds pointing at the
// local image directory. The resolver records each link target and image
// reference for the caller; it never fails on a target it cannot resolve,
// because a dangling link is emitted as-is rather than treated as an
// error.
func ResolveLinks(text, imageDir string) (string, []model.WikiLink, []model.ImageReference) {
	var links []model.WikiLink
	var images []model.ImageReference
	var b strings.Builder

	for {
		start, end, ok := findLink(text)
		if !ok {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:start])
		inner := text[start+2 : end-2]

		if name, isImage := imageLinkName(inner); isImage {
			ref := ImageRef(name, imageDir)
			images = append(images, ref)
			b.WriteString("![" + imageAlt(inner, name) + "](" + ref.Path + ")")
		} else {
			link := parseLink(inner)
			links = append(links, link)
			b.WriteString(renderLink(link))
		}
		text = text[end:]
	}
	return b.String(), links, images
}

// findLink locates the first balanced [[...]] token in text. Nested
// brackets (image captions may contain links) are matched; an unbalanced
// opening token ends the scan with ok false so the remainder passes
// through untouched.
func findLink(text string) (start, end int, ok bool) {
	start = strings.Index(text, "[[")
	if start < 0 {
		return 0, 0, false
	}
	depth := 0
	for i := start; i < len(text)-1; i++ {
		switch {
		case text[i] == '[' && text[i+1] == '[':
			depth++
			i++
		case text[i] == ']' && text[i+1] == ']':
			depth--
			i++
			if depth == 0 {
				return start, i + 1, true
			}
		}
	}
	return 0, 0, false
}

// imageLinkName reports whether a link body targets the File or Image
// namespace, returning the bare filename when it does.
func imageLinkName(inner string) (string, bool) {
	segments := splitTopLevel(inner, '|')
	target := strings.TrimSpace(segments[0])
	lower := strings.ToLower(target)
	for _, prefix := range []string{"file:", "image:"} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(target[len(prefix):]), true
		}
	}
	return "", false
}

// imageAlt picks the alt text for an image embed: an explicit alt=
// parameter wins, then the last segment that is not a rendering
// parameter or size hint, then the filename itself.
func imageAlt(inner, filename string) string {
	segments := splitTopLevel(inner, '|')
	alt := filename
	for _, seg := range segments[1:] {
		seg = collapseSpace(seg)
		lower := strings.ToLower(seg)
		switch {
		case strings.HasPrefix(lower, "alt="):
			return strings.TrimSpace(seg[len("alt="):])
		case renderParams[lower],
			strings.HasSuffix(lower, "px"),
			strings.HasPrefix(lower, "upright"),
			strings.HasPrefix(lower, "link="),
			seg == "":
			continue
		default:
			alt = seg
		}
	}
	return alt
}

// parseLink splits a link body into target and alias. Whitespace runs
// (including newlines inside multi-line links) collapse to single spaces.
// The alias is kept exactly as the author wrote it; it is not normalized
// to the target title.
func parseLink(inner string) model.WikiLink {
	target := inner
	alias := ""
	if pipe := strings.IndexByte(inner, '|'); pipe >= 0 {
		target = inner[:pipe]
		alias = inner[pipe+1:]
	}
	return model.WikiLink{
		Target: collapseSpace(target),
		Alias:  collapseSpace(alias),
	}
}

// renderLink renders a WikiLink back to vault wikilink form. An alias
// equal to the target collapses to the plain form.
func renderLink(l model.WikiLink) string {
	if l.Alias == "" || l.Alias == l.Target {
		return "[[" + l.Target + "]]"
	}
	return "[[" + l.Target + "|" + l.Alias + "]]"
}

// collapseSpace trims s and collapses interior whitespace runs to a
// single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
