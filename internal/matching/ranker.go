package matching

import (
	"sort"

	"github.com/sourcegraph/conc/iter"
)

// DefaultParallelThreshold is the pool size from which Ranker scores in parallel.
const DefaultParallelThreshold = 512

// Ranker scores and orders candidates. The zero value is not usable; build
// one with NewRanker.
type Ranker struct {
	phrasebook        Phrasebook
	parallelThreshold int
	maxGoroutines     int
}

type Option func(*Ranker)

// WithPhrasebook selects the sentences used for explanations.
func WithPhrasebook(pb Phrasebook) Option {
	return func(r *Ranker) {
		if pb != nil {
			r.phrasebook = pb
		}
	}
}

// WithParallelism scores pools of at least threshold candidates on up to
// maxGoroutines goroutines. A threshold <= 0 disables parallel scoring;
// maxGoroutines <= 0 means GOMAXPROCS.
func WithParallelism(threshold, maxGoroutines int) Option {
	return func(r *Ranker) {
		r.parallelThreshold = threshold
		r.maxGoroutines = maxGoroutines
	}
}

func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		phrasebook:        EnglishPhrasebook,
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRanker = NewRanker()

// Rank scores every candidate with the default ranker and returns the results
// sorted by descending total. Candidates with equal totals keep input order.
func Rank(project ProjectRequest, candidates []Candidate, curator CuratorProfile, audience AudienceModel) []MatchResult {
	return defaultRanker.Rank(project, candidates, curator, audience)
}

// Score evaluates a single candidate.
func (r *Ranker) Score(c Candidate, project ProjectRequest, curator CuratorProfile, audience AudienceModel) MatchResult {
	sub := SubScores{
		Basic:      float64(BasicCompatibility(c, project)),
		Style:      StyleAffinity(c.WorkStyles, curator.PreferredStyles),
		Experience: ExperienceFit(c.ExperienceYears, project.RequiredExperience),
		Audience:   AudienceReception(c.Rating, c.PrimaryGenre, c.IsLocal, audience),
	}
	total, breakdown, explanation := Aggregate(sub, r.phrasebook)
	return MatchResult{
		Candidate:   c,
		TotalScore:  total,
		Breakdown:   breakdown,
		Explanation: explanation,
	}
}

// Rank scores every candidate and sorts the results by descending total.
// The sort is stable, so ties keep their relative input order.
func (r *Ranker) Rank(project ProjectRequest, candidates []Candidate, curator CuratorProfile, audience AudienceModel) []MatchResult {
	score := func(c *Candidate) MatchResult {
		return r.Score(*c, project, curator, audience)
	}

	var results []MatchResult
	if r.parallelThreshold > 0 && len(candidates) >= r.parallelThreshold {
		mapper := iter.Mapper[Candidate, MatchResult]{MaxGoroutines: r.maxGoroutines}
		results = mapper.Map(candidates, score)
	} else {
		results = make([]MatchResult, len(candidates))
		for i := range candidates {
			results[i] = score(&candidates[i])
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})
	return results
}
