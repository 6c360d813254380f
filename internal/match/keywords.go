package match

import (
	"regexp"
	"sort"
	"strings"
)

var tokenRe = regexp.MustCompile(`[a-zA-Z]{3,}`)

// stopwords is the fixed English stopword list used for keyword scoring.
// It extends a standard list with filler common to resumes and job postings
// so that "responsibilities" style boilerplate does not crowd out real terms.
var stopwords = map[string]bool{}

func init() {
	for _, w := range []string{
		"a", "about", "above", "after", "again", "all", "also", "am", "an",
		"and", "any", "are", "as", "at", "be", "because", "been", "before",
		"being", "below", "between", "both", "but", "by", "can", "could",
		"did", "do", "does", "doing", "down", "during", "each", "few", "for",
		"from", "further", "had", "has", "have", "having", "he", "her",
		"here", "hers", "him", "his", "how", "i", "if", "in", "into", "is",
		"it", "its", "just", "may", "me", "might", "more", "most", "must",
		"my", "no", "nor", "not", "of", "off", "on", "once", "only", "or",
		"other", "our", "ours", "out", "over", "own", "same", "shall", "she",
		"should", "so", "some", "such", "than", "that", "the", "their",
		"theirs", "them", "then", "there", "these", "they", "this", "those",
		"through", "to", "too", "under", "until", "up", "very", "was", "we",
		"were", "what", "when", "where", "which", "while", "who", "whom",
		"why", "will", "with", "would", "you", "your", "yours",
		// resume / job posting filler
		"ability", "company", "corp", "etc", "experience", "inc", "including",
		"llc", "ltd", "new", "opportunity", "per", "plus", "preferred",
		"required", "requirements", "responsibilities", "role", "skills",
		"strong", "team", "using", "work", "working", "years",
	} {
		stopwords[w] = true
	}
}

// keyword is a scored job-description term.
type keyword struct {
	term  string
	count int
	first int // index of first occurrence, for stable tie-breaking
}

// topKeywords extracts the k most frequent non-stopword tokens from text,
// skipping tokens already claimed by taxonomy skills (passed lowercased in
// exclude). Ordering is by descending frequency, then first occurrence, so
// the result is reproducible for identical input.
func topKeywords(text string, k int, exclude map[string]bool) []string {
	counts := make(map[string]*keyword)

	for i, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if stopwords[tok] || exclude[tok] {
			continue
		}
		if kw, ok := counts[tok]; ok {
			kw.count++
		} else {
			counts[tok] = &keyword{term: tok, count: 1, first: i}
		}
	}

	ranked := make([]*keyword, 0, len(counts))
	for _, kw := range counts {
		ranked = append(ranked, kw)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}

	terms := make([]string, len(ranked))
	for i, kw := range ranked {
		terms[i] = kw.term
	}
	return terms
}

// tokenSet returns the set of lowercase tokens present in text.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		set[tok] = true
	}
	return set
}

// skillTokens lowercases skill names and splits multi-word names into their
// parts, producing the exclusion set for keyword extraction.
func skillTokens(skills []string) map[string]bool {
	exclude := make(map[string]bool)
	for _, s := range skills {
		for _, part := range tokenRe.FindAllString(strings.ToLower(s), -1) {
			exclude[part] = true
		}
	}
	return exclude
}
