package model

// Page represents a single wiki page as parsed from the MediaWiki XML dump.
// It is constructed once per dump entry and is immutable after parsing;
// the pipeline never modifies a Page, only the PageResult built around it.
type Page struct {
	// Title is the page title, unique within the dump.
	Title string

	// Text is the raw wiki-text body of the latest revision.
	Text string

	// Redirect reports whether this page is a redirect to another title.
	Redirect bool

	// RedirectTarget is the title the page redirects to.
	// Empty unless Redirect is true.
	RedirectTarget string

	// Namespace is the MediaWiki namespace number. Namespace 0 is the
	// main article namespace; talk pages, file pages, and so on use
	// other namespaces.
	Namespace int
}

// HasContent reports whether the page carries any wiki-text worth converting.
// Dumps occasionally contain pages with an empty latest revision; those are
// skipped with a warning rather than producing empty documents.
func (p *Page) HasContent() bool {
	for _, r := range p.Text {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}

// InfoboxField is a single key/value pair extracted from an infobox template.
// The key is normalized (trimmed, lowercased, colons removed); the value has
// already been run through inline formatting, so it is Markdown text.
// Fields are owned exclusively by the Infobox that produced them.
type InfoboxField struct {
	// Key is the normalized parameter name.
	Key string

	// Value is the inline-formatted parameter value.
	Value string
}

// Infobox holds the structured metadata extracted from the first
// infobox-style template found on a page.
//
// Design decision: fields are kept as an ordered slice rather than a map
// because frontmatter output must preserve the source order of the template
// parameters. A map would make the output nondeterministic.
type Infobox struct {
	// Type is the infobox type name as written in the template,
	// e.g. "Character" for {{Infobox Character|...}}.
	Type string

	// Fields is the ordered list of extracted key/value pairs.
	Fields []InfoboxField

	// Image is the image named by the infobox's designated image field,
	// if any.
	Image *ImageReference

	// Links lists the internal links found inside field values, in
	// source order. Link targets that survive only in the frontmatter
	// still count as referenced titles.
	Links []WikiLink

	// ValueImages lists image embeds produced while formatting field
	// values, so they are downloaded like body embeds. The designated
	// image field is tracked separately in Image.
	ValueImages []ImageReference
}

// InferredTag returns the tag derived from the infobox type using the given
// singularization function: the type name is singularized ("Characters"
// becomes "character") and then tag-normalized. Returns the empty string
// when the infobox has no type.
func (ib *Infobox) InferredTag(singular func(string) string) string {
	if ib.Type == "" {
		return ""
	}
	return NormalizeTag(singular(ib.Type))
}

// WikiLink is an internal wiki link as written in the source text.
type WikiLink struct {
	// Target is the linked page title.
	Target string

	// Alias is the optional display text. When absent the link is
	// displayed as the raw target text as originally written,
	// preserving author intent.
	Alias string
}

// ImageReference maps an original wiki image filename to its local relative
// path under the vault's image directory. The mapping is deterministic: the
// same filename always maps to the same path. Downloading the file is the
// fetch package's concern; the core only decides what to fetch and which
// local reference to emit.
type ImageReference struct {
	// Name is the original wiki filename, e.g. "Frodo Baggins.png".
	Name string

	// Path is the vault-relative destination path, e.g. "images/Frodo_Baggins.png".
	Path string
}
