package vault

import (
	"bytes"
	"sort"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/wikivault/internal/model"
)

// Index accumulates tag to page-title associations across one conversion
// run and renders the per-tag index documents once all pages have been
// processed.
//
// Design decision: the index is a run-scoped object passed explicitly
// into the conversion loop rather than ambient package state, so parallel
// test runs cannot contaminate each other. The mapping is monotonic: Add
// only ever grows it, and nothing removes an entry during a run.
type Index struct {
	// pages maps each tag to its page titles in insertion order.
	pages map[string][]string

	// seen deduplicates title additions per tag.
	seen map[string]map[string]bool
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{
		pages: make(map[string][]string),
		seen:  make(map[string]map[string]bool),
	}
}

// Add associates a page title with a normalized tag. Adding the same
// pair twice is a no-op. Empty tags are ignored.
func (ix *Index) Add(tag, title string) {
	tag = model.NormalizeTag(tag)
	if tag == "" || title == "" {
		return
	}
	if ix.seen[tag] == nil {
		ix.seen[tag] = make(map[string]bool)
	}
	if ix.seen[tag][title] {
		return
	}
	ix.seen[tag][title] = true
	ix.pages[tag] = append(ix.pages[tag], title)
}

// AddAll associates a page title with every tag in the slice.
func (ix *Index) AddAll(tags []string, title string) {
	for _, tag := range tags {
		ix.Add(tag, title)
	}
}

// Tags returns all accumulated tags in lexicographic order.
func (ix *Index) Tags() []string {
	tags := make([]string, 0, len(ix.pages))
	for tag := range ix.pages {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Pages returns the titles associated with a tag, sorted. The returned
// slice is a copy; mutating it does not affect the index.
func (ix *Index) Pages(tag string) []string {
	titles := append([]string(nil), ix.pages[model.NormalizeTag(tag)]...)
	sort.Strings(titles)
	return titles
}

// Len returns the number of distinct tags accumulated so far.
func (ix *Index) Len() int {
	return len(ix.pages)
}

// TagCounts returns the number of associated pages per tag, for the run
// summary.
func (ix *Index) TagCounts() map[string]int {
	counts := make(map[string]int, len(ix.pages))
	for tag, titles := range ix.pages {
		counts[tag] = len(titles)
	}
	return counts
}

// RenderIndex renders one tag's index document: a heading naming the tag
// and a wikilink list entry per associated page, sorted for determinism.
func (ix *Index) RenderIndex(tag string) ([]byte, error) {
	titles := ix.Pages(tag)

	entries := make([]string, len(titles))
	for i, title := range titles {
		entries[i] = "[[" + title + "]]"
	}

	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)
	md.H1(indexHeading(tag))
	md.PlainText("")
	md.BulletList(entries...)
	if err := md.Build(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// indexHeading turns a tag identifier into a readable heading:
// underscores become spaces and each word is title-cased, so
// "middle_earth" renders as "Middle Earth Index".
func indexHeading(tag string) string {
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(tag, "_", " ")) + " Index"
}
