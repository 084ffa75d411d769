// internal/matching/models.go
package matching

import "time"

// ExperienceBand names the experience curve a project asks for.
type ExperienceBand string

const (
	BandBeginner               ExperienceBand = "beginner"
	BandIntermediate           ExperienceBand = "intermediate"
	BandExpert                 ExperienceBand = "expert"
	BandBeginnerToIntermediate ExperienceBand = "beginner_to_intermediate"
)

// Known reports whether b is one of the named bands. Unknown bands are legal
// input and score a flat default.
func (b ExperienceBand) Known() bool {
	switch b {
	case BandBeginner, BandIntermediate, BandExpert, BandBeginnerToIntermediate:
		return true
	}
	return false
}

// Range is an inclusive money interval.
type Range struct {
	Min int64
	Max int64
}

// Overlaps reports whether the two intervals share at least one value.
func (r Range) Overlaps(o Range) bool {
	return r.Min <= o.Max && r.Max >= o.Min
}

// Period is an inclusive date interval. Only the calendar day is significant.
type Period struct {
	Start time.Time
	End   time.Time
}

// Covers reports whether [start, end] lies fully inside the period.
func (p Period) Covers(start, end time.Time) bool {
	return !day(p.Start).After(day(start)) && !day(p.End).Before(day(end))
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Timeline is the window a project needs an artist for.
type Timeline struct {
	PreparationStart time.Time
	EventEnd         time.Time
}

type Candidate struct {
	ID              string
	Genres          TagSet
	PrimaryGenre    string
	WorkStyles      TagSet
	ExperienceYears int
	Rating          float64
	IsLocal         bool
	Budget          Range
	Availability    Period
}

type ProjectRequest struct {
	ID                 string
	Categories         TagSet
	Budget             Range
	Timeline           Timeline
	RequiredExperience ExperienceBand
}

type CuratorProfile struct {
	ID              string
	PreferredStyles TagSet
}

// DefaultGenrePopularity is returned for genres the model has no weight for.
const DefaultGenrePopularity = 0.5

// AudienceModel maps a genre tag to its popularity weight in [0,1].
type AudienceModel map[string]float64

// Popularity looks up a genre, falling back to DefaultGenrePopularity.
// Models built without NewAudienceModel may hold raw keys; those are
// matched after normalization with the same precedence NewAudienceModel uses.
func (m AudienceModel) Popularity(genre string) float64 {
	g := NormalizeTag(genre)
	if v, ok := m[g]; ok {
		return v
	}
	for _, k := range sortedKeys(m) {
		if NormalizeTag(k) == g {
			return m[k]
		}
	}
	return DefaultGenrePopularity
}

// Breakdown holds the four rounded sub-scores of a match.
type Breakdown struct {
	Basic      int
	Style      int
	Experience int
	Audience   int
}

// Score returns the rounded sub-score for a factor.
func (b Breakdown) Score(f Factor) int {
	switch f {
	case FactorBasic:
		return b.Basic
	case FactorStyle:
		return b.Style
	case FactorExperience:
		return b.Experience
	case FactorAudience:
		return b.Audience
	}
	return 0
}

type MatchResult struct {
	Candidate   Candidate
	TotalScore  int
	Breakdown   Breakdown
	Explanation string
}
