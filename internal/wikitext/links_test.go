package wikitext

import (
	"reflect"
	"testing"

	"github.com/nao1215/wikivault/internal/model"
)

// TestResolveLinks tests internal link rewriting and target recording.
func TestResolveLinks(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
		targets  []string
	}{
		{
			name:     "plain link",
			input:    "See [[Frodo]].",
			expected: "See [[Frodo]].",
			targets:  []string{"Frodo"},
		},
		{
			name:     "aliased link keeps alias verbatim",
			input:    "See [[Frodo|the hobbit]].",
			expected: "See [[Frodo|the hobbit]].",
			targets:  []string{"Frodo"},
		},
		{
			name:     "alias equal to target collapses",
			input:    "[[Frodo|Frodo]]",
			expected: "[[Frodo]]",
			targets:  []string{"Frodo"},
		},
		{
			name:     "multi-line link collapses whitespace",
			input:    "[[Gandalf\n  the Grey]]",
			expected: "[[Gandalf the Grey]]",
			targets:  []string{"Gandalf the Grey"},
		},
		{
			name:     "two links in order",
			input:    "[[A]] then [[B|bee]]",
			expected: "[[A]] then [[B|bee]]",
			targets:  []string{"A", "B"},
		},
		{
			name:     "unbalanced link passes through",
			input:    "broken [[Oops",
			expected: "broken [[Oops",
			targets:  nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, links, images := ResolveLinks(tc.input, "images")
			if got != tc.expected {
				t.Errorf("text = %q, expected %q", got, tc.expected)
			}
			var targets []string
			for _, l := range links {
				targets = append(targets, l.Target)
			}
			if !reflect.DeepEqual(targets, tc.targets) {
				t.Errorf("targets = %v, expected %v", targets, tc.targets)
			}
			if len(images) != 0 {
				t.Errorf("unexpected image references: %v", images)
			}
		})
	}
}

// TestResolveLinksImages tests that File and Image namespace links become
// local Markdown embeds with recorded image references.
func TestResolveLinksImages(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		input         string
		expected      string
		expectedImage model.ImageReference
	}{
		{
			name:          "bare file link",
			input:         "[[File:Map.png]]",
			expected:      "![Map.png](images/Map.png)",
			expectedImage: model.ImageReference{Name: "Map.png", Path: "images/Map.png"},
		},
		{
			name:          "thumb with caption",
			input:         "[[File:Bag End.jpg|thumb|250px|Bag End in spring]]",
			expected:      "![Bag End in spring](images/Bag_End.jpg)",
			expectedImage: model.ImageReference{Name: "Bag End.jpg", Path: "images/Bag_End.jpg"},
		},
		{
			name:          "explicit alt wins",
			input:         "[[Image:Ring.png|thumb|alt=The One Ring|a golden ring]]",
			expected:      "![The One Ring](images/Ring.png)",
			expectedImage: model.ImageReference{Name: "Ring.png", Path: "images/Ring.png"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, links, images := ResolveLinks(tc.input, "images")
			if got != tc.expected {
				t.Errorf("text = %q, expected %q", got, tc.expected)
			}
			if len(links) != 0 {
				t.Errorf("image link recorded as page link: %v", links)
			}
			if len(images) != 1 || images[0] != tc.expectedImage {
				t.Errorf("images = %v, expected %v", images, tc.expectedImage)
			}
		})
	}
}

// TestImageRefDeterministic tests that the filename to path mapping is
// stable across calls.
func TestImageRefDeterministic(t *testing.T) {
	t.Parallel()

	a := ImageRef("Bag End.jpg", "images")
	b := ImageRef("Bag End.jpg", "images")
	if a != b {
		t.Errorf("mapping not deterministic: %v vs %v", a, b)
	}
	if a.Path != "images/Bag_End.jpg" {
		t.Errorf("path = %q", a.Path)
	}
}
