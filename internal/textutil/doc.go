// Package textutil provides filename sanitization and fuzzy name comparison.
//
// SanitizeFileName makes folder names safe as archive entry names.
// Fingerprints are character-trigram vectors; SimilarPairs uses them to point
// out folder names such as "Health" and "Healthcare" that the case-folded
// merge key keeps apart.
package textutil
