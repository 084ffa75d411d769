// internal/workers/matching/rank-candidates/models.go
package rankcandidates

import (
	"encoding/json"

	"artmatch/internal/models"
)

// Input is either a lookup ({projectId, curatorId}) or an inline payload
// carrying the project, curator and candidate records.
type Input struct {
	ProjectID string `json:"projectId,omitempty"`
	CuratorID string `json:"curatorId,omitempty"`
	TopN      int    `json:"topN,omitempty"`

	Project       *models.ProjectRecord `json:"project,omitempty"`
	Curator       *models.CuratorRecord `json:"curator,omitempty"`
	Candidates    []models.ArtistRecord `json:"candidates,omitempty"`
	AudienceModel map[string]float64    `json:"audienceModel,omitempty"`

	// raw holds the job variables the input was decoded from, so inline
	// payloads are schema-checked as sent rather than as re-encoded.
	raw json.RawMessage
}

func (in *Input) Inline() bool {
	return in.Project != nil || in.Curator != nil || len(in.Candidates) > 0
}

func (in *Input) rankRequest() models.RankRequest {
	req := models.RankRequest{
		Candidates:    in.Candidates,
		AudienceModel: in.AudienceModel,
		TopN:          in.TopN,
	}
	if in.Project != nil {
		req.Project = *in.Project
	}
	if in.Curator != nil {
		req.Curator = *in.Curator
	}
	return req
}

type Output struct {
	models.RankingRun
}
