package scoring

import (
	"fmt"
	"math"
)

// Weights are the per-component multipliers of one mode.
type Weights struct {
	Keyword   float64 `json:"keyword"`
	Semantic  float64 `json:"semantic"`
	Structure float64 `json:"structure"`
}

// Validate checks that every weight is within [0,1] and that they sum to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{"keyword": w.Keyword, "semantic": w.Semantic, "structure": w.Structure} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s weight must be between 0 and 1, got %.3f", name, v)
		}
	}
	if sum := w.Keyword + w.Semantic + w.Structure; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("weights must total 1, got %.6f", sum)
	}
	return nil
}

// DefaultWeights returns the standard weighting for every mode.
func DefaultWeights() map[Mode]Weights {
	return map[Mode]Weights{
		ModeFull:         {Keyword: 0.4, Semantic: 0.4, Structure: 0.2},
		ModeQuick:        {Keyword: 0.6, Semantic: 0.2, Structure: 0.2},
		ModeKeywordsOnly: {Keyword: 1.0, Semantic: 0.0, Structure: 0.0},
	}
}
