package keywords

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"resume-ats/internal/textproc"
)

const (
	maxFeatures = 1000
	maxNGram    = 3
)

var termToken = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// TFIDFSimilarity fits a TF-IDF vectorizer on the two documents and returns
// the cosine similarity of their vectors. Documents that share no usable
// vocabulary score 0.
func TFIDFSimilarity(a, b string) float64 {
	docs := [2][]string{ngrams(a), ngrams(b)}

	counts := [2]map[string]int{{}, {}}
	total := map[string]int{}
	for i, terms := range docs {
		for _, term := range terms {
			counts[i][term]++
			total[term]++
		}
	}
	if len(total) == 0 {
		return 0
	}

	vocab := make([]string, 0, len(total))
	for term := range total {
		vocab = append(vocab, term)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if total[vocab[i]] != total[vocab[j]] {
			return total[vocab[i]] > total[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > maxFeatures {
		vocab = vocab[:maxFeatures]
	}

	const n = 2.0
	vecs := [2][]float64{make([]float64, len(vocab)), make([]float64, len(vocab))}
	for j, term := range vocab {
		df := 0.0
		for i := range counts {
			if counts[i][term] > 0 {
				df++
			}
		}
		idf := math.Log((1+n)/(1+df)) + 1
		for i := range counts {
			vecs[i][j] = float64(counts[i][term]) * idf
		}
	}

	return cosine(vecs[0], vecs[1])
}

// ngrams lower-cases text, keeps tokens of two or more word characters, drops
// stopwords and emits every 1..maxNGram gram of the remaining sequence.
func ngrams(text string) []string {
	var tokens []string
	for _, tok := range termToken.FindAllString(strings.ToLower(text), -1) {
		if textproc.IsStopword(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	out := make([]string, 0, len(tokens)*maxNGram)
	for size := 1; size <= maxNGram; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+size], " "))
		}
	}
	return out
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim > 1 {
		return 1
	}
	return sim
}
