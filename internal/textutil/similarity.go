package textutil

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Fingerprint represents a character-trigram frequency vector.
type Fingerprint struct {
	grams map[string]float64
	norm  float64
}

// NewFingerprint creates a fingerprint from the provided text. Each word is
// padded with spaces before trigrams are taken, so short words still
// contribute. Returns nil if the text has no letters or digits.
func NewFingerprint(text string) *Fingerprint {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	if len(words) == 0 {
		return nil
	}
	counts := make(map[string]float64)
	for _, word := range words {
		runes := []rune(" " + word + " ")
		for i := 0; i+3 <= len(runes); i++ {
			counts[string(runes[i:i+3])]++
		}
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{grams: counts, norm: math.Sqrt(norm)}
}

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for gram, count := range a.grams {
		if other, ok := b.grams[gram]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// Pair is two names and their similarity.
type Pair struct {
	A, B  string
	Score float64
}

// SimilarPairs returns every pair of distinct names whose similarity is at
// least threshold, highest score first. Names that are equal ignoring case
// are skipped; the merge key already treats them as one.
func SimilarPairs(names []string, threshold float64) []Pair {
	prints := make([]*Fingerprint, len(names))
	for i, name := range names {
		prints[i] = NewFingerprint(name)
	}
	var pairs []Pair
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if strings.EqualFold(strings.TrimSpace(names[i]), strings.TrimSpace(names[j])) {
				continue
			}
			score := CosineSimilarity(prints[i], prints[j])
			if score >= threshold {
				pairs = append(pairs, Pair{A: names[i], B: names[j], Score: score})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Score > pairs[j].Score })
	return pairs
}
