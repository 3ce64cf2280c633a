package keywords

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"resume-ats/internal/shared/cache"
	"resume-ats/internal/textproc"
)

// Set is a set of normalized keywords.
type Set map[string]struct{}

// Has reports membership.
func (s Set) Has(k string) bool {
	_, ok := s[k]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Result is the keyword component's assessment. All keyword lists are sorted.
type Result struct {
	Score           int                `json:"score"`
	MatchedKeywords []string           `json:"matched_keywords"`
	MissingKeywords []string           `json:"missing_keywords"`
	JobKeywords     []string           `json:"job_keywords"`
	ResumeKeywords  []string           `json:"resume_keywords"`
	MatchRatio      float64            `json:"match_ratio"`
	TFIDFScore      float64            `json:"tfidf_score"`
	KeywordDensity  map[string]float64 `json:"keyword_density"`
}

// Cache stores extracted job-description keyword sets.
type Cache = cache.Store

const cachePrefix = "jdkw"

var (
	yearsPattern  = regexp.MustCompile(`(\d+)\+?\s*years?\s*(?:of\s*)?(?:experience|exp)`)
	degreePattern = regexp.MustCompile(`(bachelor|master|phd|doctorate|associate)(?:\s*of\s*|\s+in\s+|\s+)(\w+)`)
	nextWord      = regexp.MustCompile(`^[ \t]+(\w+)`)
)

const maxFieldWords = 3

// fieldBreaks end a degree's field of study in addition to stopwords.
var fieldBreaks = map[string]struct{}{
	"degree":     {},
	"degrees":    {},
	"required":   {},
	"preferred":  {},
	"related":    {},
	"field":      {},
	"equivalent": {},
	"experience": {},
	"years":      {},
	"plus":       {},
	"bachelor":   {},
	"master":     {},
	"phd":        {},
	"doctorate":  {},
	"associate":  {},
}

// Analyzer matches job-description keywords against a résumé.
type Analyzer struct {
	terms []string
	cache Cache
}

// NewAnalyzer builds an analyzer over dict. cache may be nil.
func NewAnalyzer(dict Dictionary, c Cache) *Analyzer {
	terms := append(dict.Technical(), dict.SoftSkills()...)
	return &Analyzer{terms: terms, cache: c}
}

// Ready reports whether the analyzer can serve requests.
func (a *Analyzer) Ready() bool {
	return a != nil && len(a.terms) > 0
}

// Analyze compares the two processed documents.
func (a *Analyzer) Analyze(ctx context.Context, resume, job textproc.ProcessedText) Result {
	jobKeywords := a.jobKeywords(ctx, job.CleanedText)
	resumeKeywords := a.Extract(resume.CleanedText)

	matched := Match(jobKeywords, resumeKeywords)
	missing := Missing(jobKeywords, resumeKeywords)

	tfidf := TFIDFSimilarity(resume.CleanedText, job.CleanedText)
	ratio := float64(len(matched)) / math.Max(float64(len(jobKeywords)), 1)

	return Result{
		Score:           Score(ratio, tfidf),
		MatchedKeywords: matched.Sorted(),
		MissingKeywords: missing.Sorted(),
		JobKeywords:     jobKeywords.Sorted(),
		ResumeKeywords:  resumeKeywords.Sorted(),
		MatchRatio:      ratio,
		TFIDFScore:      tfidf,
		KeywordDensity:  Density(resume.CleanedText, jobKeywords),
	}
}

// Extract returns the dictionary terms and pattern-derived keywords present
// in text. Dictionary terms are found by substring search.
func (a *Analyzer) Extract(text string) Set {
	lower := strings.ToLower(text)
	out := Set{}
	for _, term := range a.terms {
		if strings.Contains(lower, term) {
			out[term] = struct{}{}
		}
	}
	for _, m := range yearsPattern.FindAllStringSubmatch(lower, -1) {
		out[fmt.Sprintf("%s years experience", m[1])] = struct{}{}
	}
	for _, m := range degreePattern.FindAllStringSubmatchIndex(lower, -1) {
		if field := fieldOfStudy(lower, m[4], m[5]); field != "" {
			out[lower[m[2]:m[3]]+" "+field] = struct{}{}
		}
	}
	return out
}

// jobKeywords extracts the job description's keywords, going through the
// cache when one is configured. Cache trouble only costs a recomputation.
func (a *Analyzer) jobKeywords(ctx context.Context, cleaned string) Set {
	if a.cache == nil {
		return a.Extract(cleaned)
	}
	key := CacheKey(cleaned)
	if list, ok := cache.LoadJSON[[]string](ctx, a.cache, key); ok {
		out := make(Set, len(list))
		for _, k := range list {
			out[k] = struct{}{}
		}
		return out
	}
	set := a.Extract(cleaned)
	cache.StoreJSON(ctx, a.cache, key, set.Sorted())
	return set
}

// CacheKey is the cache key of a cleaned job description.
func CacheKey(cleanedJD string) string {
	return cache.Key(cachePrefix, cleanedJD)
}

// fieldOfStudy reads the field following a degree, starting with the word at
// text[start:end] and extending by up to two more words on the same line. It
// stops at the first stopword, connective or degree name. The words read past
// end stay available to the degree scan, so a second degree is still found.
func fieldOfStudy(text string, start, end int) string {
	var kept []string
	word := text[start:end]
	for len(kept) < maxFieldWords && !endsField(word) {
		kept = append(kept, word)
		m := nextWord.FindStringSubmatchIndex(text[end:])
		if m == nil {
			break
		}
		word = text[end+m[2] : end+m[3]]
		end += m[1]
	}
	return strings.Join(kept, " ")
}

func endsField(word string) bool {
	if textproc.IsStopword(word) {
		return true
	}
	_, stop := fieldBreaks[word]
	return stop
}

// FuzzyMatch reports whether two keywords match: equal, or one contains the
// other and both are longer than three bytes.
func FuzzyMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) <= 3 || len(b) <= 3 {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Match returns the job keywords that fuzzy-match at least one résumé keyword.
func Match(job, resume Set) Set {
	out := Set{}
	for jk := range job {
		if resume.Has(jk) {
			out[jk] = struct{}{}
			continue
		}
		for rk := range resume {
			if FuzzyMatch(jk, rk) {
				out[jk] = struct{}{}
				break
			}
		}
	}
	return out
}

// Missing returns the job keywords absent from the résumé by exact
// membership. A keyword may therefore be both matched (fuzzily) and missing.
func Missing(job, resume Set) Set {
	out := Set{}
	for jk := range job {
		if !resume.Has(jk) {
			out[jk] = struct{}{}
		}
	}
	return out
}

// Score blends the match ratio and TF-IDF similarity into 0..100.
func Score(matchRatio, tfidf float64) int {
	blended := matchRatio*0.7 + tfidf*0.3
	blended = math.Max(0, math.Min(1, blended))
	score := int(math.Round(blended * 100))
	if score > 100 {
		return 100
	}
	return score
}

// Density is the occurrence count of each keyword in text divided by the
// number of whitespace-separated words.
func Density(text string, keywords Set) map[string]float64 {
	lower := strings.ToLower(text)
	words := len(strings.Fields(lower))
	out := make(map[string]float64, len(keywords))
	for k := range keywords {
		if words == 0 {
			out[k] = 0
			continue
		}
		out[k] = float64(strings.Count(lower, strings.ToLower(k))) / float64(words)
	}
	return out
}
