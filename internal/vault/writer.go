package vault

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nao1215/wikivault/internal/model"
)

// IndexDirName is the directory under the vault root that holds the
// per-tag index documents.
const IndexDirName = "_indexes"

// Writer writes rendered documents into a vault directory.
// It owns the duplicate-filename policy: the first page with a given
// sanitized title keeps the bare name, later ones get an _N suffix.
//
// Writer is not safe for concurrent use; pages are written sequentially
// in dump order.
type Writer struct {
	// root is the vault output directory.
	root string

	// counts tracks how many documents share each sanitized base name.
	counts map[string]int

	// titles records every page title written, for dangling-link
	// reporting after the run.
	titles map[string]bool

	// logger for structured logging.
	logger *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWriterLogger sets a custom logger for the writer.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = logger
	}
}

// NewWriter creates the vault root directory and returns a Writer for it.
func NewWriter(root string, opts ...WriterOption) (*Writer, error) {
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("failed to create vault directory: %w", err)
	}

	w := &Writer{
		root:   root,
		counts: make(map[string]int),
		titles: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w, nil
}

// Root returns the vault output directory.
func (w *Writer) Root() string {
	return w.root
}

// HasTitle reports whether a document for the given page title was
// written during this run.
func (w *Writer) HasTitle(title string) bool {
	return w.titles[title]
}

// WriteDocument renders a document and writes it as {title}.md under the
// vault root, applying filename sanitization and the duplicate suffix
// policy. Returns the filename used.
func (w *Writer) WriteDocument(doc *model.Document) (string, error) {
	data, err := RenderDocument(doc)
	if err != nil {
		return "", err
	}

	base := SanitizeFilename(doc.Title)
	n := w.counts[base]
	w.counts[base]++

	name := base + ".md"
	if n > 0 {
		name = base + "_" + strconv.Itoa(n) + ".md"
	}

	path := filepath.Join(w.root, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}

	w.titles[doc.Title] = true
	w.logger.Debug("wrote document", "file", name, "page", doc.Title)
	return name, nil
}

// WriteIndexes emits one index document per accumulated tag under the
// _indexes directory. It runs exactly once, after the last page, so a
// crash mid-conversion leaves no partial index behind. Returns the
// number of index files written.
func (w *Writer) WriteIndexes(ix *Index) (int, error) {
	if ix.Len() == 0 {
		return 0, nil
	}

	dir := filepath.Join(w.root, IndexDirName)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return 0, fmt.Errorf("failed to create index directory: %w", err)
	}

	written := 0
	for _, tag := range ix.Tags() {
		data, err := ix.RenderIndex(tag)
		if err != nil {
			return written, fmt.Errorf("failed to render index for tag %q: %w", tag, err)
		}
		name := "_" + SanitizeFilename(tag) + ".md"
		if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			return written, fmt.Errorf("failed to write index %s: %w", name, err)
		}
		written++
		w.logger.Debug("wrote index", "tag", tag, "file", name)
	}
	return written, nil
}
