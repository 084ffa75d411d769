// internal/models/matching.go
package models

import (
	"fmt"
	"time"

	"artmatch/internal/matching"
)

// DateLayout is the wire format of every date in ranking payloads.
const DateLayout = "2006-01-02"

type MoneyRange struct {
	Min int64 `json:"min" yaml:"min"`
	Max int64 `json:"max" yaml:"max"`
}

type DateRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

type TimelineRecord struct {
	PreparationStart string `json:"preparationStart" yaml:"preparationStart"`
	EventEnd         string `json:"eventEnd" yaml:"eventEnd"`
}

// ArtistRecord is a candidate as it travels over JSON (workers, HTTP) and YAML (fixtures).
type ArtistRecord struct {
	ID              string     `json:"id" yaml:"id"`
	Name            string     `json:"name,omitempty" yaml:"name,omitempty"`
	Genres          []string   `json:"genres" yaml:"genres"`
	PrimaryGenre    string     `json:"primaryGenre,omitempty" yaml:"primaryGenre,omitempty"`
	WorkStyles      []string   `json:"workStyles" yaml:"workStyles"`
	ExperienceYears int        `json:"experienceYears" yaml:"experienceYears"`
	Rating          float64    `json:"rating" yaml:"rating"`
	IsLocal         bool       `json:"isLocal" yaml:"isLocal"`
	Budget          MoneyRange `json:"budget" yaml:"budget"`
	Availability    DateRange  `json:"availability" yaml:"availability"`
}

type ProjectRecord struct {
	ID                 string         `json:"id" yaml:"id"`
	Title              string         `json:"title,omitempty" yaml:"title,omitempty"`
	Categories         []string       `json:"categories" yaml:"categories"`
	Budget             MoneyRange     `json:"budget" yaml:"budget"`
	Timeline           TimelineRecord `json:"timeline" yaml:"timeline"`
	RequiredExperience string         `json:"requiredExperience" yaml:"requiredExperience"`
}

type CuratorRecord struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name,omitempty" yaml:"name,omitempty"`
	PreferredStyles []string `json:"preferredStyles" yaml:"preferredStyles"`
}

// RankRequest is the inline ranking payload accepted by the rank-candidates
// worker and POST /v1/rankings.
type RankRequest struct {
	Project       ProjectRecord      `json:"project"`
	Curator       CuratorRecord      `json:"curator"`
	Candidates    []ArtistRecord     `json:"candidates"`
	AudienceModel map[string]float64 `json:"audienceModel,omitempty"`
	TopN          int                `json:"topN,omitempty"`
}

type BreakdownRecord struct {
	Basic      int `json:"basic"`
	Style      int `json:"style"`
	Experience int `json:"experience"`
	Audience   int `json:"audience"`
}

type MatchResultRecord struct {
	Rank        int             `json:"rank"`
	ArtistID    string          `json:"artistId"`
	TotalScore  int             `json:"totalScore"`
	Breakdown   BreakdownRecord `json:"breakdown"`
	Explanation string          `json:"explanation"`
}

// RankingRun is the outcome of one ranking pass.
type RankingRun struct {
	RunID           string              `json:"runId"`
	ProjectID       string              `json:"projectId"`
	CuratorID       string              `json:"curatorId"`
	TotalCandidates int                 `json:"totalCandidates"`
	Returned        int                 `json:"returned"`
	DurationMs      int64               `json:"durationMs"`
	Results         []MatchResultRecord `json:"results"`
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: expected %s, got %q", field, DateLayout, value)
	}
	return t, nil
}

// ToCandidate converts the record. PrimaryGenre defaults to the first genre.
func (a ArtistRecord) ToCandidate() (matching.Candidate, error) {
	start, err := parseDate("availability.start", a.Availability.Start)
	if err != nil {
		return matching.Candidate{}, err
	}
	end, err := parseDate("availability.end", a.Availability.End)
	if err != nil {
		return matching.Candidate{}, err
	}

	primary := a.PrimaryGenre
	if primary == "" && len(a.Genres) > 0 {
		primary = a.Genres[0]
	}

	return matching.Candidate{
		ID:              a.ID,
		Genres:          matching.NewTagSet(a.Genres...),
		PrimaryGenre:    matching.NormalizeTag(primary),
		WorkStyles:      matching.NewTagSet(a.WorkStyles...),
		ExperienceYears: a.ExperienceYears,
		Rating:          a.Rating,
		IsLocal:         a.IsLocal,
		Budget:          matching.Range{Min: a.Budget.Min, Max: a.Budget.Max},
		Availability:    matching.Period{Start: start, End: end},
	}, nil
}

func (p ProjectRecord) ToProject() (matching.ProjectRequest, error) {
	start, err := parseDate("timeline.preparationStart", p.Timeline.PreparationStart)
	if err != nil {
		return matching.ProjectRequest{}, err
	}
	end, err := parseDate("timeline.eventEnd", p.Timeline.EventEnd)
	if err != nil {
		return matching.ProjectRequest{}, err
	}

	return matching.ProjectRequest{
		ID:                 p.ID,
		Categories:         matching.NewTagSet(p.Categories...),
		Budget:             matching.Range{Min: p.Budget.Min, Max: p.Budget.Max},
		Timeline:           matching.Timeline{PreparationStart: start, EventEnd: end},
		RequiredExperience: matching.ExperienceBand(p.RequiredExperience),
	}, nil
}

func (c CuratorRecord) ToCurator() matching.CuratorProfile {
	return matching.CuratorProfile{
		ID:              c.ID,
		PreferredStyles: matching.NewTagSet(c.PreferredStyles...),
	}
}

// ToCandidates converts a pool, dropping repeated IDs after the first.
func ToCandidates(records []ArtistRecord) ([]matching.Candidate, error) {
	seen := make(map[string]struct{}, len(records))
	out := make([]matching.Candidate, 0, len(records))
	for i, r := range records {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}

		c, err := r.ToCandidate()
		if err != nil {
			return nil, fmt.Errorf("candidates[%d]: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Resolve converts the whole inline request into core values.
func (r RankRequest) Resolve() (matching.ProjectRequest, matching.CuratorProfile, []matching.Candidate, matching.AudienceModel, error) {
	project, err := r.Project.ToProject()
	if err != nil {
		return matching.ProjectRequest{}, matching.CuratorProfile{}, nil, nil, fmt.Errorf("project.%w", err)
	}
	candidates, err := ToCandidates(r.Candidates)
	if err != nil {
		return matching.ProjectRequest{}, matching.CuratorProfile{}, nil, nil, err
	}
	return project, r.Curator.ToCurator(), candidates, matching.NewAudienceModel(r.AudienceModel), nil
}

func FromMatchResult(rank int, r matching.MatchResult) MatchResultRecord {
	return MatchResultRecord{
		Rank:       rank,
		ArtistID:   r.Candidate.ID,
		TotalScore: r.TotalScore,
		Breakdown: BreakdownRecord{
			Basic:      r.Breakdown.Basic,
			Style:      r.Breakdown.Style,
			Experience: r.Breakdown.Experience,
			Audience:   r.Breakdown.Audience,
		},
		Explanation: r.Explanation,
	}
}

// FromMatchResults numbers results from 1 and keeps at most topN (0 keeps all).
func FromMatchResults(results []matching.MatchResult, topN int) []MatchResultRecord {
	if topN > 0 && topN < len(results) {
		results = results[:topN]
	}
	out := make([]MatchResultRecord, len(results))
	for i, r := range results {
		out[i] = FromMatchResult(i+1, r)
	}
	return out
}
