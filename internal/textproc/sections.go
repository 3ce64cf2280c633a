package textproc

import (
	"regexp"
	"strings"
)

type sectionPattern struct {
	name string
	re   *regexp.Regexp
}

// Section header patterns, checked in order; the first match names the section.
func defaultSectionPatterns() []sectionPattern {
	return []sectionPattern{
		{name: "contact", re: regexp.MustCompile(`(contact|personal information)`)},
		{name: "summary", re: regexp.MustCompile(`(summary|profile|objective)`)},
		{name: "experience", re: regexp.MustCompile(`(experience|employment|work history)`)},
		{name: "education", re: regexp.MustCompile(`(education|academic)`)},
		{name: "skills", re: regexp.MustCompile(`(skills|technical skills|competencies)`)},
		{name: "projects", re: regexp.MustCompile(`(projects|portfolio)`)},
		{name: "certifications", re: regexp.MustCompile(`(certifications|certificates)`)},
		{name: "awards", re: regexp.MustCompile(`(awards|achievements|honors)`)},
	}
}

func (p *Processor) headerName(line string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, h := range p.headers {
		if h.re.MatchString(lower) {
			return h.name, true
		}
	}
	return "", false
}

// extractSections partitions text into named sections. Lines before the first
// header are dropped, and a section is kept only when it has content.
func (p *Processor) extractSections(text string) map[string]string {
	sections := make(map[string]string)
	current := ""
	var content []string

	flush := func() {
		if current != "" && len(content) > 0 {
			sections[current] = strings.Join(content, "\n")
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if name, ok := p.headerName(line); ok {
			flush()
			current = name
			content = nil
			continue
		}
		if current != "" && strings.TrimSpace(line) != "" {
			content = append(content, line)
		}
	}
	flush()
	return sections
}
