// Package main provides the entry point for the wikivault CLI.
//
// wikivault converts a MediaWiki XML export into a vault of Markdown
// notes with YAML frontmatter, wiki-style links, and per-tag index
// documents.
//
// Usage:
//
//	wikivault convert <dump.xml>
//	wikivault history
//
// See --help for all available options.
package main

// main is the entry point for wikivault.
func main() {
	Execute()
}
