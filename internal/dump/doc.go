// Package dump streams pages out of a MediaWiki XML export.
//
// It wraps the go-wikiparse parser and maps its page records onto the
// model types the conversion pipeline consumes. Pages are yielded one at
// a time in dump order, so arbitrarily large exports never need to be
// resident in memory at once.
package dump
