package textproc

import (
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

var loadDictionary = sync.OnceValues(func() (*golem.Lemmatizer, error) {
	return golem.New(en.New())
})

// Lemmatizer reduces plural nouns to their singular form using the English
// lemma dictionary. Only words carrying a plural suffix are looked up, so
// verb and adjective forms pass through unchanged. Words missing from the
// dictionary, such as product names, are returned as is.
type Lemmatizer struct {
	dict  *golem.Lemmatizer
	fixed map[string]string
}

// NewLemmatizer returns a lemmatizer backed by the shared English dictionary.
// If the dictionary cannot be loaded only the fixed forms are reduced.
func NewLemmatizer() *Lemmatizer {
	dict, err := loadDictionary()
	if err != nil {
		return &Lemmatizer{fixed: fixedForms()}
	}
	return &Lemmatizer{dict: dict, fixed: fixedForms()}
}

// Lemmatize returns the singular form of word.
func (l *Lemmatizer) Lemmatize(word string) string {
	if lemma, ok := l.fixed[word]; ok {
		return lemma
	}
	if l.dict == nil || len(word) <= 3 || !strings.HasSuffix(word, "s") {
		return word
	}
	if lemma := l.dict.Lemma(word); lemma != "" {
		return lemma
	}
	return word
}

// fixedForms take precedence over the dictionary. Plurals without an "s"
// suffix never reach it, and the tool names end in "s" without being plural.
func fixedForms() map[string]string {
	return map[string]string{
		"children":   "child",
		"people":     "person",
		"indices":    "index",
		"matrices":   "matrix",
		"analyses":   "analysis",
		"criteria":   "criterion",
		"phenomena":  "phenomenon",
		"series":     "series",
		"species":    "species",
		"news":       "news",
		"status":     "status",
		"analytics":  "analytics",
		"devops":     "devops",
		"kubernetes": "kubernetes",
		"jenkins":    "jenkins",
		"redis":      "redis",
	}
}
