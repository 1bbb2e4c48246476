package textutil

import (
	"math"
	"testing"
)

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
	}{
		{"both nil", nil, nil},
		{"a nil", nil, NewFingerprint("hello")},
		{"b nil", NewFingerprint("hello"), nil},
		{"punctuation only", NewFingerprint("!!"), NewFingerprint("hello")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); got != 0 {
				t.Errorf("CosineSimilarity() = %v, want 0", got)
			}
		})
	}
}

func TestCosineSimilarityIdenticalIgnoresCase(t *testing.T) {
	got := CosineSimilarity(NewFingerprint("Shopping & Errands"), NewFingerprint("shopping errands"))
	if math.Abs(got-1) > 1e-9 {
		t.Errorf("CosineSimilarity = %v, want 1", got)
	}
}

func TestCosineSimilarityNearSynonyms(t *testing.T) {
	near := CosineSimilarity(NewFingerprint("Health"), NewFingerprint("Healthcare"))
	far := CosineSimilarity(NewFingerprint("Health"), NewFingerprint("Travel"))
	if near < 0.5 {
		t.Errorf("Health/Healthcare similarity = %v, want >= 0.5", near)
	}
	if far >= near {
		t.Errorf("unrelated names scored %v, not below %v", far, near)
	}
}

func TestSimilarPairs(t *testing.T) {
	pairs := SimilarPairs([]string{"Health", "Travel", "Healthcare", "travel", "Fitness"}, 0.5)
	if len(pairs) != 1 {
		t.Fatalf("expected one pair, got %+v", pairs)
	}
	if pairs[0].A != "Health" || pairs[0].B != "Healthcare" {
		t.Fatalf("unexpected pair %+v", pairs[0])
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"  Work / Admin ": "Work - Admin",
		"Q&A: plans?":     "Q&A- plans",
		".hidden":         "hidden",
		"   ":             "",
		`a"b<c>d|e`:       "abcde",
	}
	for in, want := range tests {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
