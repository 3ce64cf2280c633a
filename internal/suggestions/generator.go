// Package suggestions turns component results into a short, prioritised list
// of actionable résumé improvements.
package suggestions

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"resume-ats/internal/keywords"
	"resume-ats/internal/semantic"
	"resume-ats/internal/structure"
)

// Type is the severity class of a suggestion.
type Type string

const (
	TypeCritical    Type = "critical"
	TypeWarning     Type = "warning"
	TypeImprovement Type = "improvement"
)

// Impact is the expected effect of acting on a suggestion.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// MaxSuggestions caps the list returned by Generate.
const MaxSuggestions = 8

const (
	maxMissingKeywords  = 5
	maxFormattingIssues = 3
)

// Suggestion is one actionable recommendation.
type Suggestion struct {
	ID          string `json:"id"`
	Type        Type   `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Example     string `json:"example,omitempty"`
	Impact      Impact `json:"impact"`

	rule string
}

// Rule is the key of the rule that produced s.
func (s Suggestion) Rule() string {
	return s.rule
}

// Input carries everything the rules look at. Semantic is nil when the
// semantic matcher did not run.
type Input struct {
	Keyword   keywords.Result
	Semantic  *semantic.Result
	Structure structure.Result
	Score     int
}

// Generator builds suggestions. The zero value is not usable; call New.
type Generator struct {
	newID func() string
}

// New returns a generator that assigns random UUIDs.
func New() *Generator {
	return &Generator{newID: uuid.NewString}
}

// Generate applies every rule to in and returns at most MaxSuggestions,
// highest priority first.
func (g *Generator) Generate(in Input) []Suggestion {
	out := make([]Suggestion, 0, 9)
	add := func(rule, example string) {
		out = append(out, g.build(rule, example))
	}

	if missing := in.Keyword.MissingKeywords; len(missing) > 0 {
		add(RuleMissingKeywords, "Consider adding these keywords: "+strings.Join(head(missing, maxMissingKeywords), ", "))
	}
	if in.Keyword.MatchRatio < 0.5 {
		add(RuleLowKeywordDensity, exampleKeywordDensity)
	}

	if missing := in.Structure.Sections.Missing; len(missing) > 0 {
		add(RuleMissingSections, "Add these sections: "+strings.Join(missing, ", "))
	}
	if !in.Structure.Content.HasQuantifiedAchievements {
		add(RuleNoQuantifiedAchievements, exampleQuantify)
	}
	if !in.Structure.Content.HasActionVerbs {
		add(RuleNoActionVerbs, exampleActionVerbs)
	}
	if issues := in.Structure.Formatting.Issues; len(issues) > 0 {
		add(RulePoorFormatting, "Fix these issues: "+strings.Join(head(issues, maxFormattingIssues), ", "))
	}

	if in.Semantic != nil && in.Semantic.OK() && in.Semantic.OverallSimilarity < 0.4 {
		add(RuleLowSemanticMatch, exampleSemantic)
	}

	switch {
	case in.Score < 60:
		add(RuleOverhaul, exampleOverhaul)
	case in.Score < 80:
		add(RuleFineTune, exampleFineTune)
	}

	out = dedupe(out)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

func (g *Generator) build(rule, example string) Suggestion {
	t := templates[rule]
	return Suggestion{
		ID:          g.newID(),
		Type:        t.Type,
		Title:       t.Title,
		Description: t.Description,
		Example:     example,
		Impact:      t.Impact,
		rule:        rule,
	}
}

var (
	impactRank = map[Impact]int{ImpactHigh: 3, ImpactMedium: 2, ImpactLow: 1}
	typeRank   = map[Type]int{TypeCritical: 3, TypeWarning: 2, TypeImprovement: 1}
)

// Less orders a before b when a has higher impact, or equal impact and a more
// severe type.
func Less(a, b Suggestion) bool {
	if ia, ib := impactRank[a.Impact], impactRank[b.Impact]; ia != ib {
		return ia > ib
	}
	return typeRank[a.Type] > typeRank[b.Type]
}

func dedupe(in []Suggestion) []Suggestion {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s.rule]; ok {
			continue
		}
		seen[s.rule] = struct{}{}
		out = append(out, s)
	}
	return out
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
