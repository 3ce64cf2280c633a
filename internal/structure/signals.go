package structure

import (
	"math"
	"strings"

	"resume-ats/internal/textproc"
)

// Formatting issues, reported in this order.
const (
	IssueNoBullets     = "No bullet points found"
	IssueNoHeaders     = "Insufficient clear section headers"
	IssueNoContactInfo = "Missing contact information"
)

const (
	minClearHeaders     = 3
	readabilityBaseline = 15.0
	readabilityPenalty  = 2.0
)

// FormatAnalysis holds the ATS-friendly formatting signals of the raw text.
type FormatAnalysis struct {
	HasBulletPoints  bool     `json:"has_bullet_points"`
	HasClearHeaders  bool     `json:"has_clear_headers"`
	HasDates         bool     `json:"has_dates"`
	HasContactInfo   bool     `json:"has_contact_info"`
	LineCount        int      `json:"line_count"`
	BulletPointCount int      `json:"bullet_point_count"`
	HeaderCount      int      `json:"header_count"`
	DateCount        int      `json:"date_count"`
	PhoneCount       int      `json:"phone_count"`
	EmailCount       int      `json:"email_count"`
	Issues           []string `json:"formatting_issues"`
}

// ContentAnalysis holds content-quality signals.
type ContentAnalysis struct {
	WordCount                  int                       `json:"word_count"`
	HasQuantifiedAchievements  bool                      `json:"has_quantified_achievements"`
	QuantifiedAchievementCount int                       `json:"quantified_achievement_count"`
	HasActionVerbs             bool                      `json:"has_action_verbs"`
	ActionVerbCount            int                       `json:"action_verb_count"`
	Density                    map[string]SectionDensity `json:"content_density"`
	ReadabilityScore           float64                   `json:"readability_score"`
}

// SectionDensity describes how tightly a section is written.
type SectionDensity struct {
	WordCount    int     `json:"word_count"`
	LineCount    int     `json:"line_count"`
	WordsPerLine float64 `json:"words_per_line"`
}

func analyzeFormatting(text string) FormatAnalysis {
	lines := strings.Split(text, "\n")
	f := FormatAnalysis{LineCount: len(lines), Issues: []string{}}

	for _, line := range lines {
		if bulletLine.MatchString(line) {
			f.BulletPointCount++
		}
		if headerLine.MatchString(strings.TrimSpace(line)) {
			f.HeaderCount++
		}
	}
	f.DateCount = len(datePattern.FindAllStringIndex(text, -1))
	f.PhoneCount = len(phonePattern.FindAllStringIndex(text, -1))
	f.EmailCount = len(emailPattern.FindAllStringIndex(text, -1))

	f.HasBulletPoints = f.BulletPointCount > 0
	f.HasClearHeaders = f.HeaderCount >= minClearHeaders
	f.HasDates = f.DateCount > 0
	f.HasContactInfo = f.PhoneCount > 0 || f.EmailCount > 0

	if !f.HasBulletPoints {
		f.Issues = append(f.Issues, IssueNoBullets)
	}
	if !f.HasClearHeaders {
		f.Issues = append(f.Issues, IssueNoHeaders)
	}
	if !f.HasContactInfo {
		f.Issues = append(f.Issues, IssueNoContactInfo)
	}
	return f
}

func analyzeContent(resume textproc.ProcessedText) ContentAnalysis {
	text := resume.OriginalText
	lower := strings.ToLower(text)

	c := ContentAnalysis{
		WordCount: len(strings.Fields(text)),
		Density:   make(map[string]SectionDensity, len(resume.Sections)),
	}

	c.QuantifiedAchievementCount = len(quantified.FindAllStringIndex(lower, -1))
	c.HasQuantifiedAchievements = c.QuantifiedAchievementCount > 0

	for _, verb := range ActionVerbs {
		if strings.Contains(lower, verb) {
			c.ActionVerbCount++
		}
	}
	c.HasActionVerbs = c.ActionVerbCount > 0

	for name, content := range resume.Sections {
		words := len(strings.Fields(content))
		lines := len(strings.Split(content, "\n"))
		c.Density[name] = SectionDensity{
			WordCount:    words,
			LineCount:    lines,
			WordsPerLine: float64(words) / float64(max(lines, 1)),
		}
	}

	c.ReadabilityScore = readability(text)
	return c
}

// readability penalises long sentences: 100 at 15 words per sentence or
// fewer, 2 points per extra word, floored at 0.
func readability(text string) float64 {
	chunks := strings.Split(text, ".")
	words := 0
	for _, s := range chunks {
		words += len(strings.Fields(s))
	}
	avg := float64(words) / float64(max(len(chunks), 1))
	return math.Min(100, math.Max(0, 100-(avg-readabilityBaseline)*readabilityPenalty))
}
