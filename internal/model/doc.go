// Package model defines the core data structures shared across WikiVault.
//
// The types here represent wiki pages as they arrive from the dump reader,
// the intermediate state accumulated while a page moves through the
// conversion pipeline, and the final Markdown documents handed to the
// vault writer. They contain no I/O and no parsing logic; those concerns
// live in the wikitext, dump, and vault packages.
package model
