package wikitext

import (
	"reflect"
	"strings"
	"testing"
)

// TestExtractCategories tests category token stripping and name capture.
func TestExtractCategories(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		input         string
		expectedText  string
		expectedNames []string
	}{
		{
			name:          "single category stripped",
			input:         "[[Category:Characters]]\n'''Gandalf''' is a wizard.",
			expectedText:  "\n'''Gandalf''' is a wizard.",
			expectedNames: []string{"Characters"},
		},
		{
			name:          "sort key discarded",
			input:         "text [[Category:Kings|Aragorn]]",
			expectedText:  "text ",
			expectedNames: []string{"Kings"},
		},
		{
			name:          "lowercase prefix recognized",
			input:         "[[category:Places]]",
			expectedText:  "",
			expectedNames: []string{"Places"},
		},
		{
			name:          "ordinary links untouched",
			input:         "See [[Frodo]] and [[Category:Hobbits]]",
			expectedText:  "See [[Frodo]] and ",
			expectedNames: []string{"Hobbits"},
		},
		{
			name:          "no categories",
			input:         "plain text",
			expectedText:  "plain text",
			expectedNames: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			text, names := ExtractCategories(tc.input)
			if text != tc.expectedText {
				t.Errorf("text = %q, expected %q", text, tc.expectedText)
			}
			if !reflect.DeepEqual(names, tc.expectedNames) {
				t.Errorf("names = %v, expected %v", names, tc.expectedNames)
			}
		})
	}
}

// TestExtractCategoriesTokenGone verifies the testable property that the
// literal category token never survives into the rendered body.
func TestExtractCategoriesTokenGone(t *testing.T) {
	t.Parallel()

	text, _ := ExtractCategories("intro [[Category:Characters]] outro")
	if strings.Contains(text, "Category:") {
		t.Errorf("category token survived: %q", text)
	}
}
