package canon

import (
	"sort"
	"unicode"
)

// tokenize splits text into comparable units: consecutive Han runes
// become overlapping bigrams, Latin/digit runs become whole words.
// Single-rune tokens are dropped.
func tokenize(text string) []string {
	var tokens []string
	var han []rune
	var word []rune

	flushHan := func() {
		if len(han) >= 2 {
			for i := 0; i+1 < len(han); i++ {
				tokens = append(tokens, string(han[i:i+2]))
			}
		}
		han = han[:0]
	}
	flushWord := func() {
		if len(word) >= 2 {
			tokens = append(tokens, string(word))
		}
		word = word[:0]
	}

	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			flushWord()
			han = append(han, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			flushHan()
			word = append(word, unicode.ToLower(r))
		default:
			flushHan()
			flushWord()
		}
	}
	flushHan()
	flushWord()
	return tokens
}

// extractKeywords returns the topK most frequent tokens of the text.
// Ties break by first occurrence so the result is deterministic.
func extractKeywords(text string, topK int) []string {
	tokens := tokenize(text)
	freq := make(map[string]int)
	first := make(map[string]int)
	var order []string
	for i, tok := range tokens {
		if _, seen := freq[tok]; !seen {
			first[tok] = i
			order = append(order, tok)
		}
		freq[tok]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		if freq[order[i]] != freq[order[j]] {
			return freq[order[i]] > freq[order[j]]
		}
		return first[order[i]] < first[order[j]]
	})
	if len(order) > topK {
		order = order[:topK]
	}
	return order
}

// keywordSimilarity is the Jaccard overlap of the two texts' top-20
// keyword sets. Empty keyword sets yield 0.
func keywordSimilarity(a, b string) float64 {
	ka := extractKeywords(a, 20)
	kb := extractKeywords(b, 20)
	if len(ka) == 0 || len(kb) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(ka))
	for _, k := range ka {
		setA[k] = struct{}{}
	}
	inter := 0
	union := len(ka)
	for _, k := range kb {
		if _, ok := setA[k]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}
