// internal/workers/matching/calculate-match-score/models.go
package calculatematchscore

import "artmatch/internal/models"

type Input struct {
	Candidate     *models.ArtistRecord  `json:"candidate"`
	Project       *models.ProjectRecord `json:"project"`
	Curator       *models.CuratorRecord `json:"curator"`
	AudienceModel map[string]float64    `json:"audienceModel,omitempty"`
}

type Output struct {
	ArtistID    string                 `json:"artistId"`
	MatchScore  int                    `json:"matchScore"`
	Breakdown   models.BreakdownRecord `json:"breakdown"`
	Explanation string                 `json:"explanation"`
}
