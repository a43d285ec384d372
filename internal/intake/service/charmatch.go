package service

// MatchThreshold is the minimum CharMatch score for a header to count.
const MatchThreshold = 0.8

// CharMatch scores two headers by multiset character overlap in [0..1].
// Every rune of possible consumes one equal rune of target if there is one;
// the score is 1 - (unconsumed in possible + left over in target) / total.
//
// Order is ignored: anagrams score 1.0 ("name"/"nmae", but also
// "race"/"care"). It is not an edit distance.
func CharMatch(target, possible string) float64 {
	t := []rune(NormalizeHeader(target))
	p := []rune(NormalizeHeader(possible))
	total := len(t) + len(p)
	if total == 0 {
		return 1
	}

	left := make(map[rune]int, len(t))
	for _, r := range t {
		left[r]++
	}
	unmatched := 0
	for _, r := range p {
		if left[r] > 0 {
			left[r]--
		} else {
			unmatched++
		}
	}
	leftover := 0
	for _, n := range left {
		leftover += n
	}
	return 1 - float64(unmatched+leftover)/float64(total)
}
