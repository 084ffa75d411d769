// internal/sources/fixtures.go
package sources

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"artmatch/internal/matching"
	"artmatch/internal/models"
)

// Fixtures is the YAML document layout read by FixtureProvider.
type Fixtures struct {
	Projects      []models.ProjectRecord `yaml:"projects"`
	Curators      []models.CuratorRecord `yaml:"curators"`
	Artists       []models.ArtistRecord  `yaml:"artists"`
	AudienceModel map[string]float64     `yaml:"audienceModel"`
}

// FixtureProvider serves ranking inputs from an in-memory fixture set. Every
// artist is a candidate for every project, in file order.
type FixtureProvider struct {
	projects   map[string]matching.ProjectRequest
	curators   map[string]matching.CuratorProfile
	candidates []matching.Candidate
	audience   matching.AudienceModel
}

// LoadFixtures reads and parses a fixture file.
func LoadFixtures(path string) (*FixtureProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(raw)
}

func ParseFixtures(raw []byte) (*FixtureProvider, error) {
	var f Fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return NewFixtureProvider(f)
}

func NewFixtureProvider(f Fixtures) (*FixtureProvider, error) {
	p := &FixtureProvider{
		projects: make(map[string]matching.ProjectRequest, len(f.Projects)),
		curators: make(map[string]matching.CuratorProfile, len(f.Curators)),
		audience: matching.NewAudienceModel(f.AudienceModel),
	}

	for i, rec := range f.Projects {
		project, err := rec.ToProject()
		if err != nil {
			return nil, fmt.Errorf("projects[%d]: %w", i, err)
		}
		p.projects[project.ID] = project
	}
	for _, rec := range f.Curators {
		p.curators[rec.ID] = rec.ToCurator()
	}

	candidates, err := models.ToCandidates(f.Artists)
	if err != nil {
		return nil, fmt.Errorf("artists: %w", err)
	}
	p.candidates = candidates
	return p, nil
}

func (p *FixtureProvider) Project(_ context.Context, id string) (matching.ProjectRequest, error) {
	project, ok := p.projects[id]
	if !ok {
		return matching.ProjectRequest{}, matching.ErrProjectNotFound
	}
	return project, nil
}

func (p *FixtureProvider) Curator(_ context.Context, id string) (matching.CuratorProfile, error) {
	curator, ok := p.curators[id]
	if !ok {
		return matching.CuratorProfile{}, matching.ErrCuratorNotFound
	}
	return curator, nil
}

func (p *FixtureProvider) Candidates(context.Context, matching.ProjectRequest) ([]matching.Candidate, error) {
	out := make([]matching.Candidate, len(p.candidates))
	copy(out, p.candidates)
	return out, nil
}

// Candidate looks up a single artist by id.
func (p *FixtureProvider) Candidate(id string) (matching.Candidate, bool) {
	for _, c := range p.candidates {
		if c.ID == id {
			return c, true
		}
	}
	return matching.Candidate{}, false
}

func (p *FixtureProvider) AudienceModel(context.Context) (matching.AudienceModel, error) {
	return p.audience, nil
}
