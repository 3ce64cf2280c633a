package scoring

import (
	"fmt"
	"math"

	"resume-ats/internal/keywords"
	"resume-ats/internal/semantic"
	"resume-ats/internal/structure"
)

// Inputs are the component results of one analysis. Semantic is nil when the
// mode did not run the semantic matcher.
type Inputs struct {
	Mode      Mode
	Keyword   keywords.Result
	Semantic  *semantic.Result
	Structure structure.Result
}

func (in Inputs) semanticOK() bool {
	return in.Semantic != nil && in.Semantic.OK()
}

// Component is one weighted contribution to the base score.
type Component struct {
	Score    int     `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted_score"`
}

// Adjustment is a bonus or penalty applied after weighting.
type Adjustment struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// Breakdown explains how a final score was reached.
type Breakdown struct {
	Mode        Mode                 `json:"analysis_type"`
	Components  map[string]Component `json:"components"`
	BaseScore   float64              `json:"base_score"`
	Adjustments []Adjustment         `json:"adjustments"`
	FinalScore  int                  `json:"final_score"`
}

// Engine turns component results into the final 0..100 score.
type Engine struct {
	weights map[Mode]Weights
}

// NewEngine validates weights for every mode. A nil map selects
// DefaultWeights.
func NewEngine(weights map[Mode]Weights) (*Engine, error) {
	if weights == nil {
		weights = DefaultWeights()
	}
	for _, m := range Modes() {
		w, ok := weights[m]
		if !ok {
			return nil, fmt.Errorf("scoring: no weights for mode %q", m)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("scoring: mode %q: %w", m, err)
		}
	}
	copied := make(map[Mode]Weights, len(weights))
	for m, w := range weights {
		copied[m] = w
	}
	return &Engine{weights: copied}, nil
}

// Weights returns the weights used for m. Unknown modes use full weights.
func (e *Engine) Weights(m Mode) Weights {
	if w, ok := e.weights[m]; ok {
		return w
	}
	return e.weights[ModeFull]
}

// Calculate returns the final score for in.
func (e *Engine) Calculate(in Inputs) int {
	_, base := e.components(in)
	return final(base, adjustments(in))
}

// Breakdown itemises the same computation Calculate performs.
func (e *Engine) Breakdown(in Inputs) Breakdown {
	comps, base := e.components(in)
	adj := adjustments(in)
	return Breakdown{
		Mode:        in.Mode,
		Components:  comps,
		BaseScore:   base,
		Adjustments: adj,
		FinalScore:  final(base, adj),
	}
}

func (e *Engine) components(in Inputs) (map[string]Component, float64) {
	w := e.Weights(in.Mode)
	semanticScore := 0
	if in.semanticOK() {
		semanticScore = in.Semantic.Score
	}
	comps := map[string]Component{
		"keyword":   component(in.Keyword.Score, w.Keyword),
		"semantic":  component(semanticScore, w.Semantic),
		"structure": component(in.Structure.Score, w.Structure),
	}
	base := comps["keyword"].Weighted + comps["semantic"].Weighted + comps["structure"].Weighted
	return comps, base
}

func component(score int, weight float64) Component {
	return Component{Score: score, Weight: weight, Weighted: float64(score) * weight}
}

// adjustments are evaluated on the raw component results, in a fixed order.
func adjustments(in Inputs) []Adjustment {
	out := make([]Adjustment, 0, 6)

	switch ratio := in.Keyword.MatchRatio; {
	case ratio > 0.8:
		out = append(out, Adjustment{Reason: "high keyword match", Points: 5})
	case ratio < 0.3:
		out = append(out, Adjustment{Reason: "low keyword match", Points: -5})
	}

	switch missing := len(in.Structure.Sections.Missing); {
	case missing == 0:
		out = append(out, Adjustment{Reason: "all essential sections present", Points: 3})
	case missing > 2:
		out = append(out, Adjustment{Reason: "many essential sections missing", Points: -5})
	}

	if in.Structure.Content.HasQuantifiedAchievements {
		out = append(out, Adjustment{Reason: "quantified achievements", Points: 3})
	}
	if in.Structure.Content.HasActionVerbs {
		out = append(out, Adjustment{Reason: "action verbs", Points: 2})
	}

	if in.semanticOK() {
		switch sim := in.Semantic.OverallSimilarity; {
		case sim > 0.7:
			out = append(out, Adjustment{Reason: "high semantic similarity", Points: 3})
		case sim < 0.3:
			out = append(out, Adjustment{Reason: "low semantic similarity", Points: -3})
		}
	}
	return out
}

func final(base float64, adj []Adjustment) int {
	score := base
	for _, a := range adj {
		score += float64(a.Points)
	}
	return int(math.Max(0, math.Min(score, 100)))
}
