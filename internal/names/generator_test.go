package names

import (
	"slices"
	"strings"
	"testing"
)

// TestGenerate tests the adjective-noun format
func TestGenerate(t *testing.T) {
	for i := 0; i < 50; i++ {
		name := Generate()

		adjective, noun, ok := strings.Cut(name, "-")
		if !ok {
			t.Fatalf("Generate() = %q, want adjective-noun", name)
		}
		if !slices.Contains(adjectives, adjective) {
			t.Errorf("Generate() returned unknown adjective %q", adjective)
		}
		if !slices.Contains(nouns, noun) {
			t.Errorf("Generate() returned unknown noun %q", noun)
		}
	}
}

// TestWordListsHaveNoHyphens keeps names splittable on the first hyphen
func TestWordListsHaveNoHyphens(t *testing.T) {
	for _, w := range append(slices.Clone(adjectives), nouns...) {
		if w == "" || strings.Contains(w, "-") {
			t.Errorf("invalid word %q", w)
		}
	}
}

// TestRandomIndex tests bounds handling
func TestRandomIndex(t *testing.T) {
	if got := randomIndex(0); got != 0 {
		t.Errorf("randomIndex(0) = %d, want 0", got)
	}
	for i := 0; i < 100; i++ {
		if got := randomIndex(3); got < 0 || got >= 3 {
			t.Fatalf("randomIndex(3) = %d, out of range", got)
		}
	}
}
