package model

// Warning categories recorded during conversion. The pipeline signals
// unhandled constructs through these; the CLI logs them and the run ends
// with a per-category summary instead of aborting.
const (
	// WarnUnknownTemplate marks a double-brace template that no extractor
	// claimed. The construct is dropped from the output.
	WarnUnknownTemplate = "unknown_template"

	// WarnRefStripped marks <ref> footnote markup removed from a page
	// body. The citation text is lost in the conversion.
	WarnRefStripped = "ref_stripped"

	// WarnDanglingLink marks a wiki link whose target was not seen in the
	// dump (for example because the target was a skipped redirect).
	// The link is emitted unresolved.
	WarnDanglingLink = "dangling_link"

	// WarnEmptyPage marks a dump entry with no usable revision text.
	WarnEmptyPage = "empty_page"

	// WarnImageFetch marks an image that could not be downloaded.
	WarnImageFetch = "image_fetch"
)

// Warning is a non-fatal problem encountered while converting one page.
type Warning struct {
	// Category is one of the Warn* constants.
	Category string

	// Detail identifies the offending construct, e.g. the template name
	// or the unresolved link target.
	Detail string
}

// PageResult carries one page through the conversion pipeline.
// Steps mutate it in sequence: the infobox step strips the infobox and
// fills Infobox, the category step fills Tags, the body step rewrites
// Body into Markdown, and the render step produces Document.
type PageResult struct {
	// Page is the immutable source page.
	Page *Page

	// Body is the working text. It starts as the raw wiki-text and ends
	// as the final Markdown body.
	Body string

	// Infobox is the structured metadata extracted from the page,
	// or nil when the page has no infobox-style template.
	Infobox *Infobox

	// Tags is the page's tag set: categories found in the body plus the
	// tag inferred from the infobox type.
	Tags *TagSet

	// LinkedTitles lists the targets of all internal links on the page,
	// in order of appearance. Used for reporting, never for index tags.
	LinkedTitles []string

	// Images lists every image the page references, in order of
	// appearance. The caller hands these to the downloader.
	Images []ImageReference

	// Warnings collects non-fatal problems found while converting.
	// The driver logs each one after the pipeline finishes, which is
	// how they reach the warning tally and the run summary.
	Warnings []Warning

	// Document is the final rendered output. Nil until the render step
	// runs, and nil for pages excluded from output.
	Document *Document
}

// NewPageResult returns a PageResult ready to enter the pipeline.
func NewPageResult(page *Page) *PageResult {
	return &PageResult{
		Page: page,
		Body: page.Text,
		Tags: NewTagSet(),
	}
}

// Warn appends a warning to the result.
func (r *PageResult) Warn(category, detail string) {
	r.Warnings = append(r.Warnings, Warning{Category: category, Detail: detail})
}

// Document is a single Markdown file ready to be written to the vault:
// a YAML frontmatter block followed by a blank line and the body.
type Document struct {
	// Title is the original page title. It becomes the frontmatter
	// "title" key and, sanitized, the output filename.
	Title string

	// Tags is the deduplicated, sorted tag list for the frontmatter.
	Tags []string

	// Infobox supplies extra frontmatter keys, or nil.
	Infobox *Infobox

	// Body is the Markdown body text.
	Body string

	// Pointer marks a redirect pointer document: a single-line body with
	// no frontmatter, produced instead of running the full pipeline.
	Pointer bool
}
