package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases name and collapses its whitespace.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimSpace(name)
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return name
}

// ContainsFold reports whether query is a case-insensitive substring of name.
func ContainsFold(name, query string) bool {
	query = NormalizeName(query)
	if query == "" {
		return false
	}
	return strings.Contains(NormalizeName(name), query)
}

// ClosestMatch returns the index of the candidate most similar to target by Jaro-Winkler
// similarity, along with the similarity. It returns -1 when candidates is empty.
func ClosestMatch(target string, candidates []string) (int, float64) {
	target = NormalizeName(target)

	best := -1
	var bestSimilarity float64
	for i, c := range candidates {
		similarity := matchr.JaroWinkler(target, NormalizeName(c), false)
		if best < 0 || similarity > bestSimilarity {
			best = i
			bestSimilarity = similarity
		}
	}
	return best, bestSimilarity
}
