// Package wikitext converts MediaWiki markup fragments into Markdown.
//
// Each construct (emphasis, headings, lists, templates, links, categories)
// has its own small scanner so that precedence rules are explicit and
// testable in isolation: triple-quote emphasis is consumed before
// double-quote, the infobox extractor claims templates before the generic
// template policy drops them, and category tokens are stripped before link
// resolution runs.
//
// Design decision: we scan with explicit index arithmetic instead of one
// regex-driven pass. Balanced-brace template bodies and nested links are
// not regular, and per-construct scanners make the best-effort recovery
// rules (unbalanced markers pass through untouched) easy to verify.
//
// All functions are pure text transformations. Malformed markup never
// produces an error; the unparsed remainder is passed through so that a
// partially converted page is still produced.
package wikitext
