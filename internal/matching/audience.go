package matching

import "sort"

const (
	ratingWeight     = 60.0
	popularityWeight = 30.0
	localBonus       = 10.0
	maxRating        = 5.0
)

// AudienceReception predicts how well an audience will receive the artist:
// (rating/5)*60 + popularity(primaryGenre)*30 + 10 when local, capped at 100.
func AudienceReception(rating float64, primaryGenre string, isLocal bool, model AudienceModel) float64 {
	score := (rating/maxRating)*ratingWeight + model.Popularity(primaryGenre)*popularityWeight
	if isLocal {
		score += localBonus
	}
	return clamp(score)
}

// NewAudienceModel copies a genre→popularity table with normalized genre keys.
// When several keys normalize to the same tag, a key already in normalized
// form wins, otherwise the lexically smallest raw key does.
func NewAudienceModel(popularity map[string]float64) AudienceModel {
	m := make(AudienceModel, len(popularity))
	for _, genre := range sortedKeys(popularity) {
		g := NormalizeTag(genre)
		if g == "" {
			continue
		}
		if _, taken := m[g]; taken && genre != g {
			continue
		}
		m[g] = popularity[genre]
	}
	return m
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
