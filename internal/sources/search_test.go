package sources

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "artmatch/internal/common/errors"
	"artmatch/internal/common/logger"
	"artmatch/internal/matching"
)

const artistHits = `{
  "took": 2,
  "hits": {
    "total": {"value": 2, "relation": "eq"},
    "hits": [
      {"_id": "artist-001", "_source": {
        "id": "artist-001", "genres": ["painting"], "workStyles": ["abstract", "contemporary"],
        "experienceYears": 5, "rating": 4.2, "isLocal": true,
        "budget": {"min": 3000000, "max": 10000000},
        "availability": {"start": "2025-09-01", "end": "2025-12-31"}}},
      {"_id": "artist-002", "_source": {
        "id": "artist-002", "genres": ["installation"], "workStyles": [],
        "experienceYears": 9, "rating": 4.8, "isLocal": false,
        "budget": {"min": 8000000, "max": 35000000},
        "availability": {"start": "2025-08-15", "end": "2026-01-31"}}}
    ]
  }
}`

func newESServer(t *testing.T, status int, body string, captured *map[string]interface{}) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil && r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, captured)
		}
		assert.True(t, strings.HasPrefix(r.URL.Path, "/artists/_search"), r.URL.Path)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{srv.URL},
		DisableRetry: true,
	})
	require.NoError(t, err)
	return client
}

func TestSearchProvider_Candidates(t *testing.T) {
	var query map[string]interface{}
	client := newESServer(t, http.StatusOK, artistHits, &query)
	base := newCountingProvider(t)
	p := NewSearchProvider(base, client, "artists", 500, logger.NewTestLogger(t))

	project := matching.ProjectRequest{ID: "p1", Categories: matching.NewTagSet("painting", "installation")}
	pool, err := p.Candidates(context.Background(), project)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, "artist-001", pool[0].ID)
	assert.Equal(t, "installation", pool[1].PrimaryGenre)
	assert.Zero(t, base.candidateCalls)

	assert.EqualValues(t, 500, query["size"])
	terms := query["query"].(map[string]interface{})["terms"].(map[string]interface{})
	assert.ElementsMatch(t, []interface{}{"installation", "painting"}, terms["genres"])

	// Everything else comes from the base provider.
	_, err = p.Project(context.Background(), "autumn-exhibition")
	require.NoError(t, err)
	assert.Equal(t, 1, base.projectCalls)
}

func TestBuildPoolQuery_NoCategories(t *testing.T) {
	q := buildPoolQuery(matching.ProjectRequest{}, 10)
	assert.Contains(t, q["query"], "match_all")
}

func TestSearchProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"error status", http.StatusInternalServerError, `{"error": "boom"}`},
		{"unreadable body", http.StatusOK, `{"hits": [`},
		{"bad document date", http.StatusOK, `{"hits": {"hits": [{"_source": {"id": "x", "availability": {"start": "soon", "end": "later"}}}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newESServer(t, tt.status, tt.body, nil)
			p := NewSearchProvider(newCountingProvider(t), client, "artists", 10, logger.NewNoOpLogger())

			_, err := p.Candidates(context.Background(), matching.ProjectRequest{Categories: matching.NewTagSet("painting")})
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeSearchQueryFailed, apperrors.AsStandardError(err).Code)
		})
	}
}
