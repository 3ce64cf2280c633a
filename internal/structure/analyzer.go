// Package structure scores how well a résumé is laid out for applicant
// tracking systems: required sections, formatting signals and content quality.
package structure

import (
	"math"
	"regexp"

	"resume-ats/internal/textproc"
)

// Category is a required résumé section and the section names that satisfy it.
type Category struct {
	Key     string
	Aliases []string
}

// DefaultCategories are the sections every résumé is expected to carry, in
// reporting order.
func DefaultCategories() []Category {
	return []Category{
		{Key: "contact", Aliases: []string{"contact", "personal information"}},
		{Key: "experience", Aliases: []string{"experience", "employment", "work history", "professional experience"}},
		{Key: "education", Aliases: []string{"education", "academic", "qualifications"}},
		{Key: "skills", Aliases: []string{"skills", "technical skills", "competencies", "technologies"}},
	}
}

var (
	bulletLine    = regexp.MustCompile(`^\s*[•\-\*]\s+`)
	bulletAnyLine = regexp.MustCompile(`(?m)^\s*[•\-\*]\s+`)
	headerLine    = regexp.MustCompile(`^[A-Z\s]+$`)
	datePattern   = regexp.MustCompile(`\b\d{4}\b|\b\d{1,2}/\d{4}\b|\b\w+\s+\d{4}\b`)
	phonePattern  = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	numberPattern = regexp.MustCompile(`\b\d+`)
	quantified    = regexp.MustCompile(`\b\d+%|\b\d+\+|\b\d+[kmb]?\b|\$\d+|\d+x\b`)
)

// ActionVerbs are the verbs counted as strong achievement openers.
var ActionVerbs = []string{
	"achieved", "developed", "implemented", "managed", "led", "created", "designed",
	"improved", "increased", "reduced", "optimized", "delivered", "executed",
	"coordinated", "supervised", "trained", "mentored", "analyzed", "researched",
}

// Result is the structure component's assessment.
type Result struct {
	Score           int             `json:"score"`
	Sections        SectionAnalysis `json:"section_analysis"`
	Formatting      FormatAnalysis  `json:"format_analysis"`
	Content         ContentAnalysis `json:"content_analysis"`
	Recommendations []string        `json:"recommendations"`
}

// Analyzer assesses résumé structure. It holds no per-request state.
type Analyzer struct {
	categories []Category
}

// NewAnalyzer returns an analyzer over the default required categories.
func NewAnalyzer() *Analyzer {
	return &Analyzer{categories: DefaultCategories()}
}

// Ready reports whether the analyzer can serve requests.
func (a *Analyzer) Ready() bool {
	return a != nil && len(a.categories) > 0
}

// Analyze scores the résumé's original text and detected sections.
func (a *Analyzer) Analyze(resume textproc.ProcessedText) Result {
	sections := a.analyzeSections(resume)
	formatting := analyzeFormatting(resume.OriginalText)
	content := analyzeContent(resume)

	return Result{
		Score:           a.score(sections, formatting, content),
		Sections:        sections,
		Formatting:      formatting,
		Content:         content,
		Recommendations: recommendations(sections, formatting, content),
	}
}

func (a *Analyzer) score(s SectionAnalysis, f FormatAnalysis, c ContentAnalysis) int {
	required := float64(len(a.categories))
	score := (required - float64(len(s.Missing))) / required * 40

	if f.HasBulletPoints {
		score += 10
	}
	if f.HasClearHeaders {
		score += 10
	}
	if f.HasDates {
		score += 8
	}
	if f.HasContactInfo {
		score += 7
	}

	if c.HasQuantifiedAchievements {
		score += 10
	}
	if c.HasActionVerbs {
		score += 8
	}
	if c.WordCount > 200 {
		score += 4
	}
	if c.ReadabilityScore > 70 {
		score += 3
	}

	return int(math.Min(score, 100))
}
