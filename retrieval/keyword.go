package retrieval

import (
	"strings"
	"unicode"
)

// KeywordIndex is a term-frequency relevance index over a fixed corpus of
// text chunks. Positions in the index align one-to-one with positions in
// the corpus passed to Build.
//
// An index that was never built, or was built over an empty corpus, reports
// Built() == false. Consumers must treat that as a first-class degraded
// state and fall back to vector-only retrieval.
type KeywordIndex struct {
	docTerms []map[string]int
	built    bool
}

// NewKeywordIndex creates an empty, unbuilt index.
func NewKeywordIndex() *KeywordIndex {
	return &KeywordIndex{}
}

// Build tokenizes every chunk and constructs the term-frequency index.
// Chunks that produce no tokens are kept as empty placeholders so index
// positions stay aligned with the corpus. A corpus that is empty or yields
// no tokens at all leaves the index unbuilt rather than erroring.
func (idx *KeywordIndex) Build(corpus []string) {
	idx.docTerms = nil
	idx.built = false

	if len(corpus) == 0 {
		return
	}

	docTerms := make([]map[string]int, len(corpus))
	anyTokens := false
	for i, text := range corpus {
		terms := make(map[string]int)
		for _, tok := range tokenize(text) {
			terms[tok]++
		}
		if len(terms) > 0 {
			anyTokens = true
		}
		docTerms[i] = terms
	}

	if !anyTokens {
		return
	}

	idx.docTerms = docTerms
	idx.built = true
}

// Built reports whether the index holds a usable corpus.
func (idx *KeywordIndex) Built() bool {
	return idx.built
}

// Len returns the number of corpus positions in the index.
func (idx *KeywordIndex) Len() int {
	return len(idx.docTerms)
}

// Scores returns one relevance score per corpus position, using the same
// tokenizer as Build. The score is the summed term frequency of query
// tokens in the document. Returns nil if the index is not built.
func (idx *KeywordIndex) Scores(query string) []float64 {
	if !idx.built {
		return nil
	}

	queryTokens := tokenize(query)
	scores := make([]float64, len(idx.docTerms))
	if len(queryTokens) == 0 {
		return scores
	}

	for i, terms := range idx.docTerms {
		var score float64
		for _, tok := range queryTokens {
			score += float64(terms[tok])
		}
		scores[i] = score
	}
	return scores
}

// tokenize lowercases text and splits it at word boundaries, dropping
// anything that is not a letter or digit.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
