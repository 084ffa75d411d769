// internal/sources/search.go
package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "artmatch/internal/common/errors"
	"artmatch/internal/common/logger"
	"artmatch/internal/matching"
	"artmatch/internal/models"
)

// SearchProvider retrieves the candidate pool from an Elasticsearch index of
// artist documents and delegates everything else to base.
type SearchProvider struct {
	matching.DataProvider
	client  *elasticsearch.Client
	index   string
	maxPool int
	logger  logger.Logger
}

func NewSearchProvider(base matching.DataProvider, client *elasticsearch.Client, index string, maxPool int, log logger.Logger) *SearchProvider {
	return &SearchProvider{
		DataProvider: base,
		client:       client,
		index:        index,
		maxPool:      maxPool,
		logger:       log,
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.ArtistRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// buildPoolQuery matches artists with any of the project's categories, or all
// artists when it has none. Results are sorted by id.
func buildPoolQuery(project matching.ProjectRequest, size int) map[string]interface{} {
	query := map[string]interface{}{"match_all": map[string]interface{}{}}
	if project.Categories.Len() > 0 {
		query = map[string]interface{}{
			"terms": map[string]interface{}{"genres": project.Categories.Slice()},
		}
	}
	return map[string]interface{}{
		"size":  size,
		"query": query,
		"sort":  []interface{}{map[string]interface{}{"id": "asc"}},
	}
}

func (s *SearchProvider) Candidates(ctx context.Context, project matching.ProjectRequest) ([]matching.Candidate, error) {
	body, err := json.Marshal(buildPoolQuery(project, s.maxPool))
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError("candidates", err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError("candidates", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError("candidates", fmt.Errorf("status %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, apperrors.NewSearchQueryFailedError("candidates", fmt.Errorf("decode response: %w", err))
	}

	records := make([]models.ArtistRecord, len(parsed.Hits.Hits))
	for i, hit := range parsed.Hits.Hits {
		records[i] = hit.Source
	}
	candidates, err := models.ToCandidates(records)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError("candidates", err)
	}

	s.logger.Debug("candidates loaded from elasticsearch", map[string]interface{}{
		"projectId": project.ID,
		"index":     s.index,
		"count":     len(candidates),
	})
	return candidates, nil
}
