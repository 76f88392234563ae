package retrieval

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// idfEpsilon keeps cosine defined when either vector has zero norm.
const idfEpsilon = 1e-12

var tokenRegex = regexp.MustCompile(`[a-zA-Z0-9']+`)

// tokenize lowercases text and extracts maximal runs of alphanumerics and
// apostrophes, matching the corpus preprocessing convention.
func tokenize(text string) []string {
	return tokenRegex.FindAllString(strings.ToLower(text), -1)
}

// vector is a sparse term-weight mapping. Keys exist only for terms with
// non-zero weight.
type vector map[string]float64

// termFreq computes tf[t] = count(t) / max(1, len(tokens)).
func termFreq(tokens []string) vector {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	length := float64(len(tokens))
	if length < 1 {
		length = 1
	}
	tf := make(vector, len(counts))
	for t, c := range counts {
		tf[t] = float64(c) / length
	}
	return tf
}

// docFreq counts, per term, the number of documents whose token set
// contains it.
func docFreq(docTokens [][]string) map[string]int {
	df := make(map[string]int)
	for _, tokens := range docTokens {
		seen := make(map[string]bool, len(tokens))
		for _, t := range tokens {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}
	return df
}

// inverseDocFreq computes the smoothed idf[t] = ln((N+1)/(df[t]+0.5)) + 1.
// The smoothing keeps every value positive, so a term absent from the
// corpus (df=0) would still receive a defined, maximal idf.
func inverseDocFreq(df map[string]int, numDocs int) map[string]float64 {
	idf := make(map[string]float64, len(df))
	for t, n := range df {
		idf[t] = math.Log(float64(numDocs+1)/(float64(n)+0.5)) + 1
	}
	return idf
}

// tfidfVector weights a token sequence against the corpus vocabulary.
// Terms unseen by the corpus contribute nothing.
func tfidfVector(tokens []string, idf map[string]float64) vector {
	tf := termFreq(tokens)
	v := make(vector, len(tf))
	for t, f := range tf {
		v[t] = f * idf[t]
	}
	return v
}

// cosine computes dot(a,b) / (‖a‖·‖b‖ + ε). Either side empty or all-zero
// scores 0. Keys are visited in sorted order so that repeated calls on the
// same inputs produce bit-identical sums.
func cosine(a, b vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	keys := make([]string, 0, len(a)+len(b))
	for t := range a {
		keys = append(keys, t)
	}
	for t := range b {
		if _, ok := a[t]; !ok {
			keys = append(keys, t)
		}
	}
	sort.Strings(keys)

	var dot, na, nb float64
	for _, t := range keys {
		av, bv := a[t], b[t]
		dot += av * bv
		na += av * av
		nb += bv * bv
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + idfEpsilon)
}
