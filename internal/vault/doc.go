// Package vault renders converted documents and writes them into the
// output directory tree.
//
// It owns the output-side policies: YAML frontmatter layout, filename
// sanitization and duplicate-title suffixing, and the per-tag index
// documents emitted under the _indexes directory. The conversion core
// hands it finished model.Document values; nothing here parses wiki-text.
package vault
