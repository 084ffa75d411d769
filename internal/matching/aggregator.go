package matching

import "math"

// Factor identifies one of the four sub-scores, in explanation order.
type Factor int

const (
	FactorBasic Factor = iota
	FactorStyle
	FactorExperience
	FactorAudience
)

// Factors lists every factor in the order explanations are written.
var Factors = [...]Factor{FactorBasic, FactorStyle, FactorExperience, FactorAudience}

func (f Factor) String() string {
	switch f {
	case FactorBasic:
		return "basic"
	case FactorStyle:
		return "style"
	case FactorExperience:
		return "experience"
	case FactorAudience:
		return "audience"
	}
	return "unknown"
}

// Weights are the aggregation coefficients. They must sum to 1.
type Weights struct {
	Basic      float64
	Style      float64
	Experience float64
	Audience   float64
}

// DefaultWeights are the fixed production weights.
var DefaultWeights = Weights{
	Basic:      0.40,
	Style:      0.25,
	Experience: 0.20,
	Audience:   0.15,
}

func (w Weights) Sum() float64 {
	return w.Basic + w.Style + w.Experience + w.Audience
}

// SubScores are the unrounded outputs of the four scorers.
type SubScores struct {
	Basic      float64
	Style      float64
	Experience float64
	Audience   float64
}

// Breakdown rounds each sub-score for presentation.
func (s SubScores) Breakdown() Breakdown {
	return Breakdown{
		Basic:      roundScore(s.Basic),
		Style:      roundScore(s.Style),
		Experience: roundScore(s.Experience),
		Audience:   roundScore(s.Audience),
	}
}

// Total combines the raw sub-scores with DefaultWeights and rounds the result.
func (s SubScores) Total() int {
	return roundScore(
		s.Basic*DefaultWeights.Basic +
			s.Style*DefaultWeights.Style +
			s.Experience*DefaultWeights.Experience +
			s.Audience*DefaultWeights.Audience)
}

// Aggregate turns raw sub-scores into the total, the rounded breakdown and
// the explanation written from phrasebook pb.
func Aggregate(s SubScores, pb Phrasebook) (int, Breakdown, string) {
	b := s.Breakdown()
	return s.Total(), b, Explain(b, pb)
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}

func roundScore(v float64) int {
	return int(math.Round(clamp(v)))
}
