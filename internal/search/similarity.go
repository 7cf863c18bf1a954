package search

import "strings"

// Similarity scores two strings in [0, 1] by normalized Levenshtein
// distance. Equal strings score 1; when one contains the other, the score is
// the length ratio capped at 0.9; otherwise 1 - distance/maxLength.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	la, lb := len([]rune(a)), len([]rune(b))
	longer := la
	if lb > la {
		longer = lb
	}

	if strings.Contains(a, b) || strings.Contains(b, a) {
		shorter := la
		if lb < la {
			shorter = lb
		}
		ratio := float64(shorter) / float64(longer) * 0.9
		return ratio
	}

	dist := levenshtein([]rune(a), []rune(b))
	return 1 - float64(dist)/float64(longer)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
