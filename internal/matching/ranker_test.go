package matching

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPool(n int, seed int64) []Candidate {
	rng := rand.New(rand.NewSource(seed))
	genres := []string{"painting", "sculpture", "installation", "dance", "media"}
	styles := []string{"abstract", "contemporary", "experimental", "pop", "minimal"}

	pool := make([]Candidate, n)
	for i := range pool {
		g := genres[rng.Intn(len(genres))]
		pool[i] = Candidate{
			ID:              fmt.Sprintf("artist-%04d", i),
			Genres:          NewTagSet(g, genres[rng.Intn(len(genres))]),
			PrimaryGenre:    g,
			WorkStyles:      NewTagSet(styles[rng.Intn(len(styles))], styles[rng.Intn(len(styles))]),
			ExperienceYears: rng.Intn(20),
			Rating:          float64(rng.Intn(51)) / 10,
			IsLocal:         rng.Intn(2) == 0,
			Budget:          Range{Min: int64(rng.Intn(40)) * 1_000_000, Max: int64(40+rng.Intn(40)) * 1_000_000},
			Availability:    Period{Start: date("2025-09-01").AddDate(0, 0, rng.Intn(60)), End: date("2025-12-01").AddDate(0, 0, rng.Intn(60))},
		}
	}
	return pool
}

func ids(results []MatchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Candidate.ID
	}
	return out
}

func TestRank_IsSortedPermutation(t *testing.T) {
	_, p, cur, audience := referenceScenario()
	pool := randomPool(200, 7)

	results := Rank(p, pool, cur, audience)
	require.Len(t, results, len(pool))

	want := make([]string, len(pool))
	for i, c := range pool {
		want[i] = c.ID
	}
	assert.ElementsMatch(t, want, ids(results))

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].TotalScore, results[i].TotalScore)
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	c, p, cur, audience := referenceScenario()

	strong := c
	strong.ID = "strong"
	strong.Budget = Range{Min: 30_000_000, Max: 40_000_000}

	var pool []Candidate
	for _, id := range []string{"t1", "t2"} {
		cc := c
		cc.ID = id
		pool = append(pool, cc)
	}
	pool = append(pool, strong)
	for _, id := range []string{"t3", "t4"} {
		cc := c
		cc.ID = id
		pool = append(pool, cc)
	}

	results := Rank(p, pool, cur, audience)
	assert.Equal(t, []string{"strong", "t1", "t2", "t3", "t4"}, ids(results))
}

func TestRank_EmptyPool(t *testing.T) {
	_, p, cur, audience := referenceScenario()
	assert.Empty(t, Rank(p, nil, cur, audience))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	_, p, cur, audience := referenceScenario()
	pool := randomPool(50, 3)
	before := make([]string, len(pool))
	for i, c := range pool {
		before[i] = c.ID
	}

	Rank(p, pool, cur, audience)

	for i, c := range pool {
		assert.Equal(t, before[i], c.ID)
	}
}

func TestRank_ParallelMatchesSequential(t *testing.T) {
	_, p, cur, audience := referenceScenario()
	pool := randomPool(1500, 42)

	sequential := NewRanker(WithParallelism(0, 0)).Rank(p, pool, cur, audience)
	parallel := NewRanker(WithParallelism(1, 4)).Rank(p, pool, cur, audience)

	assert.Equal(t, ids(sequential), ids(parallel))
	assert.Equal(t, sequential, parallel)
}

func TestRanker_Phrasebook(t *testing.T) {
	c, p, cur, audience := referenceScenario()

	ko := NewRanker(WithPhrasebook(KoreanPhrasebook)).Score(c, p, cur, audience)
	assert.Contains(t, ko.Explanation, KoreanPhrasebook[FactorExperience][TierHigh])

	fallback := NewRanker(WithPhrasebook(nil)).Score(c, p, cur, audience)
	assert.Contains(t, fallback.Explanation, EnglishPhrasebook[FactorExperience][TierHigh])
}

func BenchmarkRank(b *testing.B) {
	_, p, cur, audience := referenceScenario()
	pool := randomPool(5000, 1)
	r := NewRanker()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Rank(p, pool, cur, audience)
	}
}
