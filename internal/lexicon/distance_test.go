package lexicon

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical empty", "", "", 0},
		{"identical word", "hello", "hello", 0},
		{"identical unicode", "こんにちは", "こんにちは", 0},
		{"empty a", "", "hello", 5},
		{"empty b", "hello", "", 5},
		{"one substitution", "cat", "bat", 1},
		{"one insertion", "cat", "cart", 1},
		{"one deletion", "cart", "cat", 1},
		{"two substitutions", "cat", "dog", 3},
		{"kitten to sitting", "kitten", "sitting", 3},
		{"case difference", "Hello", "hello", 1},
		{"unicode substitution", "café", "cafe", 1},
		{"transposition ab-ba", "ab", "ba", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := LevenshteinDistance(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}
			if reverse := LevenshteinDistance(tt.b, tt.a); reverse != result {
				t.Errorf("LevenshteinDistance not symmetric: (%q,%q)=%d, (%q,%q)=%d", tt.a, tt.b, result, tt.b, tt.a, reverse)
			}
		})
	}
}

func TestOptimalStringAlignment(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"ab", "ba", 1},
		{"dog", "dgo", 1},
		{"queen", "qeuen", 1},
		{"kitten", "sitting", 3},
		{"ca", "abc", 3},
		{"", "abc", 3},
		{"same", "same", 0},
	}
	for _, tt := range tests {
		if got := OptimalStringAlignment(tt.a, tt.b); got != tt.expected {
			t.Errorf("OptimalStringAlignment(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
		}
	}
}
