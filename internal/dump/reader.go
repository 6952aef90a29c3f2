package dump

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-wikiparse"

	"github.com/nao1215/wikivault/internal/model"
)

// Reader streams pages from a MediaWiki XML export in dump order.
type Reader struct {
	parser wikiparse.Parser
}

// NewReader creates a Reader over an XML export stream. The export
// header (siteinfo) is consumed immediately; a malformed header is the
// one fatal input error the converter does not recover from.
func NewReader(r io.Reader) (*Reader, error) {
	parser, err := wikiparse.NewParser(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump header: %w", err)
	}
	return &Reader{parser: parser}, nil
}

// Next returns the next page from the dump, or io.EOF after the last
// page. The page text is the most recent revision in the export.
func (r *Reader) Next() (*model.Page, error) {
	wp, err := r.parser.Next()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to parse dump page: %w", err)
	}

	page := &model.Page{
		Title:     strings.TrimSpace(wp.Title),
		Namespace: int(wp.Ns),
	}
	if len(wp.Revisions) > 0 {
		page.Text = wp.Revisions[len(wp.Revisions)-1].Text
	}

	// The <redirect> element is authoritative, but some exports carry
	// only the #REDIRECT directive in the page text.
	if target := strings.TrimSpace(wp.Redir.Title); target != "" {
		page.Redirect = true
		page.RedirectTarget = target
	} else if target, ok := ParseRedirect(page.Text); ok {
		page.Redirect = true
		page.RedirectTarget = target
	}

	return page, nil
}

// ParseRedirect recognizes a #REDIRECT directive at the start of a page
// body and returns its target title.
func ParseRedirect(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) == 0 || trimmed[0] != '#' {
		return "", false
	}
	if !strings.HasPrefix(strings.ToLower(trimmed), "#redirect") {
		return "", false
	}

	open := strings.Index(trimmed, "[[")
	if open < 0 {
		return "", false
	}
	end := strings.Index(trimmed[open:], "]]")
	if end < 0 {
		return "", false
	}

	target := trimmed[open+2 : open+end]
	if pipe := strings.IndexByte(target, '|'); pipe >= 0 {
		target = target[:pipe]
	}
	// Strip a section anchor; redirects point at pages, not sections.
	if hash := strings.IndexByte(target, '#'); hash >= 0 {
		target = target[:hash]
	}

	target = strings.Join(strings.Fields(target), " ")
	if target == "" {
		return "", false
	}
	return target, true
}
