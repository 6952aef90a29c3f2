package inflect

import "testing"

// TestEnglishSingular tests singularization of common infobox type names.
func TestEnglishSingular(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		word     string
		expected string
	}{
		{"characters", "character"},
		{"locations", "location"},
		{"places", "place"},
		{"countries", "country"},
		{"people", "person"},
		{"character", "character"}, // already singular
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.word, func(t *testing.T) {
			t.Parallel()
			var s English
			if got := s.Singular(tc.word); got != tc.expected {
				t.Errorf("Singular(%q) = %q, expected %q", tc.word, got, tc.expected)
			}
		})
	}
}

// TestFuncAdapter tests that Func satisfies Singularizer.
func TestFuncAdapter(t *testing.T) {
	t.Parallel()

	var s Singularizer = Func(func(w string) string { return w + "!" })
	if got := s.Singular("cats"); got != "cats!" {
		t.Errorf("Func adapter returned %q", got)
	}
}
