package structure

import (
	"strings"

	"resume-ats/internal/textproc"
)

// SectionAnalysis reports which required categories are covered and how good
// each detected section is.
type SectionAnalysis struct {
	Present []string                  `json:"present_sections"`
	Missing []string                  `json:"missing_sections"`
	Quality map[string]SectionQuality `json:"section_quality"`
}

// SectionQuality scores a single section's content.
type SectionQuality struct {
	WordCount       int  `json:"word_count"`
	LineCount       int  `json:"line_count"`
	HasBulletPoints bool `json:"has_bullet_points"`
	HasDates        bool `json:"has_dates"`
	QualityScore    int  `json:"quality_score"`
}

func (a *Analyzer) analyzeSections(resume textproc.ProcessedText) SectionAnalysis {
	present := resume.SectionNames()
	out := SectionAnalysis{
		Present: present,
		Missing: []string{},
		Quality: make(map[string]SectionQuality, len(present)),
	}

	for _, cat := range a.categories {
		if !covers(cat, present) {
			out.Missing = append(out.Missing, cat.Key)
		}
	}
	for _, name := range present {
		out.Quality[name] = assessSection(name, resume.Sections[name])
	}
	return out
}

func covers(cat Category, present []string) bool {
	for _, name := range present {
		lower := strings.ToLower(name)
		for _, alias := range cat.Aliases {
			if strings.Contains(lower, alias) {
				return true
			}
		}
	}
	return false
}

// assessSection applies the heuristics for the section's kind: experience
// sections want dates, bullets, length and metrics; skills sections want a
// concise, delimited list; anything else wants some length and structure.
func assessSection(name, content string) SectionQuality {
	words := len(strings.Fields(content))
	lines := len(strings.Split(content, "\n"))
	q := SectionQuality{
		WordCount:       words,
		LineCount:       lines,
		HasBulletPoints: bulletAnyLine.MatchString(content),
		HasDates:        datePattern.MatchString(content),
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "experience"):
		if q.HasDates {
			q.QualityScore += 30
		}
		if q.HasBulletPoints {
			q.QualityScore += 30
		}
		if words > 50 {
			q.QualityScore += 20
		}
		if numberPattern.MatchString(content) {
			q.QualityScore += 20
		}
	case strings.Contains(lower, "skills"):
		if words > 10 {
			q.QualityScore += 40
		}
		if words < 100 {
			q.QualityScore += 30
		}
		if strings.ContainsAny(content, ",\n") {
			q.QualityScore += 30
		}
	default:
		if words > 10 {
			q.QualityScore += 50
		}
		if q.HasBulletPoints {
			q.QualityScore += 25
		}
		if lines > 1 {
			q.QualityScore += 25
		}
	}
	return q
}
