// Package matcher resolves the card ids a seller's offer page shows to the
// card ids of a want-list. The two rarely differ by more than a version
// suffix or a reordered word, so a token aware similarity score is enough.
package matcher

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

// tokenWeight scales the token based ratios so that an exact full string
// match always outranks a reordering.
const tokenWeight = 0.95

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ratio is a 0..1 similarity between two strings, the mean of a normalized
// levenshtein similarity and the jaro-winkler similarity.
func ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	longest := max(len([]rune(a)), len([]rune(b)))
	lev := 1 - float64(matchr.Levenshtein(a, b))/float64(longest)
	if lev < 0 {
		lev = 0
	}
	jw := matchr.JaroWinkler(a, b, false)

	return (lev + jw) / 2
}

func tokenSortRatio(a, b []string) float64 {
	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	return ratio(strings.Join(sa, " "), strings.Join(sb, " "))
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func joinSorted(parts []string) string {
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

func concat(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}

func tokenSetRatio(a, b []string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var common, onlyA, onlyB []string
	for t := range setA {
		if _, ok := setB[t]; ok {
			common = append(common, t)
			continue
		}
		onlyA = append(onlyA, t)
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}

	intersection := joinSorted(common)
	left := concat(intersection, joinSorted(onlyA))
	right := concat(intersection, joinSorted(onlyB))

	best := ratio(left, right)
	if intersection != "" {
		best = max(best, ratio(intersection, left), ratio(intersection, right))
	}
	return best
}

// Score returns the similarity of two card ids as an integer in 0..100.
// Ids that only differ in case or punctuation score 100.
func Score(a, b string) int {
	ta := tokenize(a)
	tb := tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	full := strings.Join(ta, " ")
	other := strings.Join(tb, " ")
	if full == other {
		return 100
	}

	best := max(
		ratio(full, other),
		tokenWeight*tokenSortRatio(ta, tb),
		tokenWeight*tokenSetRatio(ta, tb),
	)
	score := int(math.Round(best * 100))
	// only identical ids get a perfect score
	return min(score, 99)
}

// Match returns the candidate closest to raw along with its score. Ties go
// to the earliest candidate, an empty candidate list returns ("", 0).
func Match(raw string, candidates []string) (string, int) {
	bestID := ""
	bestScore := -1
	for _, candidate := range candidates {
		score := Score(raw, candidate)
		if score > bestScore {
			bestID = candidate
			bestScore = score
		}
		if score == 100 {
			break
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return bestID, bestScore
}
