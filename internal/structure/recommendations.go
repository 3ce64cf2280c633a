package structure

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func recommendations(s SectionAnalysis, f FormatAnalysis, c ContentAnalysis) []string {
	out := make([]string, 0, len(s.Missing)+6)
	title := cases.Title(language.English)
	for _, section := range s.Missing {
		out = append(out, fmt.Sprintf("Add a %s section to your resume", title.String(section)))
	}
	if !f.HasBulletPoints {
		out = append(out, "Use bullet points to organize your experience and achievements")
	}
	if !f.HasClearHeaders {
		out = append(out, "Use clear, standard section headers (e.g., 'Professional Experience', 'Education')")
	}
	if !f.HasContactInfo {
		out = append(out, "Include complete contact information (phone, email)")
	}
	if !c.HasQuantifiedAchievements {
		out = append(out, "Add numbers and metrics to quantify your achievements")
	}
	if !c.HasActionVerbs {
		out = append(out, "Start bullet points with strong action verbs")
	}
	if c.WordCount < 200 {
		out = append(out, "Expand your resume content to better showcase your experience")
	}
	return out
}
