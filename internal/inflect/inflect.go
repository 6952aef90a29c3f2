// Package inflect provides noun singularization for tag inference.
//
// Infobox type names are often plural ("Characters", "Locations") while
// tags should be singular ("character", "location"). Singularization is
// rule- and dictionary-based and inherently locale-specific, so it is
// exposed as a small interface rather than hard-coded rules; callers can
// substitute a ruleset for non-English wikis.
package inflect

import "github.com/jinzhu/inflection"

// Singularizer converts a plural noun to its singular form.
// Implementations must return the input unchanged when it is already
// singular or when no rule applies.
type Singularizer interface {
	// Singular returns the singular form of word.
	Singular(word string) string
}

// English is the default Singularizer, backed by the inflection package's
// English pluralization rules and irregular-noun dictionary.
type English struct{}

// Singular implements Singularizer.
func (English) Singular(word string) string {
	return inflection.Singular(word)
}

// Func adapts a plain function to the Singularizer interface.
type Func func(string) string

// Singular implements Singularizer.
func (f Func) Singular(word string) string {
	return f(word)
}
