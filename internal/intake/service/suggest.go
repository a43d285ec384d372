package service

import (
	"sort"
	"strings"
	"sync"
)

// SuggestMinSimilarity is the lowest normalized Damerau-Levenshtein
// similarity a reference value needs to be offered as the closest match.
const SuggestMinSimilarity = 0.5

// nearIndex proposes the reference value closest to one that was not found.
// Padded bigrams narrow the candidates, Damerau-Levenshtein ranks them. The
// bigram buckets are built on first use.
type nearIndex struct {
	once   sync.Once
	values []string
	grams  map[string][]int
}

func bigramSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	if s == "" {
		return m
	}
	r := []rune(" " + strings.ToUpper(s) + " ")
	for i := 0; i+2 <= len(r); i++ {
		m[string(r[i:i+2])] = struct{}{}
	}
	return m
}

func (n *nearIndex) build() {
	n.grams = make(map[string][]int)
	for i, v := range n.values {
		for g := range bigramSet(v) {
			n.grams[g] = append(n.grams[g], i)
		}
	}
}

// closest returns the most similar value, case-insensitively; the earlier
// value wins ties.
func (n *nearIndex) closest(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if n == nil || v == "" {
		return "", false
	}
	n.once.Do(n.build)

	seen := make(map[int]struct{})
	for g := range bigramSet(v) {
		for _, i := range n.grams[g] {
			seen[i] = struct{}{}
		}
	}
	cands := make([]int, 0, len(seen))
	for i := range seen {
		cands = append(cands, i)
	}
	sort.Ints(cands)

	uv := strings.ToUpper(v)
	best, bestScore := -1, 0.0
	for _, i := range cands {
		if s := similarity(uv, strings.ToUpper(n.values[i])); s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 || bestScore < SuggestMinSimilarity {
		return "", false
	}
	return n.values[best], true
}

// similarity is Damerau-Levenshtein distance scaled to [0..1].
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	m := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(damerauLevenshtein(a, b))/float64(m)
}

// damerauLevenshtein counts insertions, deletions, substitutions and
// adjacent transpositions (optimal string alignment).
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	al, bl := len(ra), len(rb)

	dp := make([][]int, al+1)
	for i := range dp {
		dp[i] = make([]int, bl+1)
		dp[i][0] = i
	}
	for j := 0; j <= bl; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= al; i++ {
		for j := 1; j <= bl; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				dp[i][j] = min(dp[i][j], dp[i-2][j-2]+1)
			}
		}
	}
	return dp[al][bl]
}
