// Package semantic compares a résumé and a job description by embedding
// similarity at document, section and sentence level.
package semantic

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"resume-ats/internal/embedding"
	"resume-ats/internal/shared/telemetry"
	"resume-ats/internal/textproc"
)

const (
	maxSentences    = 20
	topMatchCount   = 5
	topSectionCount = 3
	topPairCount    = 10

	overallWeight  = 0.4
	sectionWeight  = 0.4
	sentenceWeight = 0.2
)

// FailureReason classifies why a semantic result carries no usable score.
type FailureReason string

const (
	ReasonModelNotLoaded    FailureReason = "model_not_loaded"
	ReasonComputationFailed FailureReason = "computation_failed"
)

// Failure explains a failed semantic analysis.
type Failure struct {
	Reason  FailureReason `json:"reason"`
	Message string        `json:"message"`
}

// SentencePair is one résumé sentence scored against one job sentence.
type SentencePair struct {
	ResumeSentence string  `json:"resume_sentence"`
	JobSentence    string  `json:"job_desc_sentence"`
	Similarity     float64 `json:"similarity"`
}

// Result is the semantic component's assessment. A non-nil Failure means the
// score is 0 because the analysis did not run, not because the texts differ.
type Result struct {
	Score               int                `json:"score"`
	OverallSimilarity   float64            `json:"overall_similarity"`
	SectionSimilarities map[string]float64 `json:"section_similarities"`
	TopMatches          []SentencePair     `json:"top_matching_sentences"`
	SentencePairCount   int                `json:"sentence_pair_count"`
	Failure             *Failure           `json:"error,omitempty"`
}

// OK reports whether the analysis produced a real score.
func (r Result) OK() bool {
	return r.Failure == nil
}

func failed(reason FailureReason, msg string) Result {
	return Result{
		SectionSimilarities: map[string]float64{},
		TopMatches:          []SentencePair{},
		Failure:             &Failure{Reason: reason, Message: msg},
	}
}

// Analyzer runs semantic comparisons through an embedder. The embedder is
// validated once by Initialize; if that fails the analyzer stays unloaded for
// the life of the process.
type Analyzer struct {
	embedder embedding.Embedder

	once    sync.Once
	loaded  atomic.Bool
	initErr error
}

// New returns an analyzer over e. A nil embedder never loads.
func New(e embedding.Embedder) *Analyzer {
	return &Analyzer{embedder: e}
}

// Initialize validates the embedder. Only the first call has any effect.
func (a *Analyzer) Initialize(ctx context.Context) error {
	a.once.Do(func() {
		if err := embedding.Validate(ctx, a.embedder); err != nil {
			a.initErr = err
			telemetry.Error("semantic.init_failed", map[string]any{"err": err})
			return
		}
		a.loaded.Store(true)
		telemetry.Info("semantic.ready", map[string]any{
			"model":      a.embedder.ModelName(),
			"dimensions": a.embedder.Dimensions(),
		})
	})
	return a.initErr
}

// IsLoaded reports whether Initialize succeeded.
func (a *Analyzer) IsLoaded() bool {
	return a != nil && a.loaded.Load()
}

// ModelName is the embedding model in use, or "" when there is none.
func (a *Analyzer) ModelName() string {
	if a == nil || a.embedder == nil {
		return ""
	}
	return a.embedder.ModelName()
}

// BreakerState reports the circuit breaker state of a remote embedder, or ""
// when none is configured.
func (a *Analyzer) BreakerState() string {
	if a == nil {
		return ""
	}
	return embedding.BreakerState(a.embedder)
}

// Analyze scores the semantic closeness of the two documents. It never
// returns an error; problems surface as Result.Failure.
func (a *Analyzer) Analyze(ctx context.Context, resume, job textproc.ProcessedText) (res Result) {
	if !a.IsLoaded() {
		return failed(ReasonModelNotLoaded, "Model not loaded")
	}

	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("semantic.panic", map[string]any{"panic": fmt.Sprint(r)})
			res = failed(ReasonComputationFailed, fmt.Sprintf("semantic analysis panicked: %v", r))
		}
	}()

	overall, err := a.similarity(ctx, resume.CleanedText, job.CleanedText)
	if err != nil {
		telemetry.Error("semantic.overall_failed", map[string]any{"err": err})
		return failed(ReasonComputationFailed, err.Error())
	}

	sections := a.sectionSimilarities(ctx, resume.Sections, job.CleanedText)
	pairs := a.sentencePairs(ctx, resume.Sentences, job.Sentences)

	top := pairs
	if len(top) > topMatchCount {
		top = top[:topMatchCount]
	}
	return Result{
		Score:               score(overall, sections, pairs),
		OverallSimilarity:   overall,
		SectionSimilarities: sections,
		TopMatches:          append([]SentencePair{}, top...),
		SentencePairCount:   len(pairs),
	}
}

func (a *Analyzer) similarity(ctx context.Context, x, y string) (float64, error) {
	vecs, err := a.embedder.EmbedBatch(ctx, []string{x, y})
	if err != nil {
		return 0, err
	}
	if len(vecs) != 2 {
		return 0, embedding.ErrBatchSize
	}
	return embedding.Cosine(vecs[0], vecs[1]), nil
}

// sectionSimilarities embeds every non-blank section together with the job
// description in one batch. A failed batch yields no section scores.
func (a *Analyzer) sectionSimilarities(ctx context.Context, sections map[string]string, jobText string) map[string]float64 {
	out := map[string]float64{}
	names := make([]string, 0, len(sections))
	for name, content := range sections {
		if strings.TrimSpace(content) != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return out
	}
	sort.Strings(names)

	texts := make([]string, 0, len(names)+1)
	for _, name := range names {
		texts = append(texts, sections[name])
	}
	texts = append(texts, jobText)

	vecs, err := a.embedder.EmbedBatch(ctx, texts)
	if err != nil || len(vecs) != len(texts) {
		telemetry.Warn("semantic.sections_failed", map[string]any{"err": errString(err, len(vecs), len(texts))})
		return out
	}
	jobVec := vecs[len(vecs)-1]
	for i, name := range names {
		out[name] = embedding.Cosine(vecs[i], jobVec)
	}
	return out
}

// sentencePairs scores every pair among the first maxSentences sentences of
// each side, most similar first. Equal similarities keep résumé-major order.
func (a *Analyzer) sentencePairs(ctx context.Context, resumeSentences, jobSentences []string) []SentencePair {
	if len(resumeSentences) == 0 || len(jobSentences) == 0 {
		return []SentencePair{}
	}
	if len(resumeSentences) > maxSentences {
		resumeSentences = resumeSentences[:maxSentences]
	}
	if len(jobSentences) > maxSentences {
		jobSentences = jobSentences[:maxSentences]
	}

	all := make([]string, 0, len(resumeSentences)+len(jobSentences))
	all = append(all, resumeSentences...)
	all = append(all, jobSentences...)
	vecs, err := a.embedder.EmbedBatch(ctx, all)
	if err != nil || len(vecs) != len(all) {
		telemetry.Warn("semantic.sentences_failed", map[string]any{"err": errString(err, len(vecs), len(all))})
		return []SentencePair{}
	}
	resumeVecs, jobVecs := vecs[:len(resumeSentences)], vecs[len(resumeSentences):]

	pairs := make([]SentencePair, 0, len(resumeSentences)*len(jobSentences))
	for i, rs := range resumeSentences {
		for j, js := range jobSentences {
			pairs = append(pairs, SentencePair{
				ResumeSentence: rs,
				JobSentence:    js,
				Similarity:     embedding.Cosine(resumeVecs[i], jobVecs[j]),
			})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Similarity > pairs[j].Similarity
	})
	return pairs
}

// score blends overall, top section and top sentence-pair similarity into
// 0..100.
func score(overall float64, sections map[string]float64, pairs []SentencePair) int {
	sectionComponent := 0.0
	if len(sections) > 0 {
		values := make([]float64, 0, len(sections))
		for _, v := range sections {
			values = append(values, v)
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(values)))
		if len(values) > topSectionCount {
			values = values[:topSectionCount]
		}
		sectionComponent = mean(values)
	}

	pairComponent := 0.0
	if len(pairs) > 0 {
		n := min(len(pairs), topPairCount)
		values := make([]float64, n)
		for i := 0; i < n; i++ {
			values[i] = pairs[i].Similarity
		}
		pairComponent = mean(values)
	}

	total := (overall*overallWeight + sectionComponent*sectionWeight + pairComponent*sentenceWeight) * 100
	return int(math.Max(0, math.Min(total, 100)))
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func errString(err error, got, want int) string {
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("got %d vectors for %d inputs", got, want)
}
