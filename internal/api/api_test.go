package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artmatch/internal/common/database"
	"artmatch/internal/common/validation"
	"artmatch/internal/matching"
	"artmatch/internal/models"
	"artmatch/internal/sources"
)

type envelope struct {
	Status string                       `json:"status"`
	Code   string                       `json:"code"`
	Data   json.RawMessage              `json:"data"`
	Errors []validation.ValidationError `json:"errors"`
}

type stubChecker struct {
	name string
	err  error
}

func (c stubChecker) Name() string                 { return c.name }
func (c stubChecker) Ping(_ context.Context) error { return c.err }

type brokenProvider struct {
	matching.DataProvider
}

func (brokenProvider) Project(context.Context, string) (matching.ProjectRequest, error) {
	return matching.ProjectRequest{}, errors.New("connection refused")
}

func sampleProvider(t *testing.T) matching.DataProvider {
	t.Helper()
	p, err := sources.LoadFixtures("../../fixtures/sample.yaml")
	require.NoError(t, err)
	return p
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(NewHandler(opts)))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url, body string) (*http.Response, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

const inlinePayload = `{
  "project": {
    "id": "project-1",
    "categories": ["painting", "sculpture", "installation"],
    "budget": {"min": 30000000, "max": 50000000},
    "timeline": {"preparationStart": "2025-10-01", "eventEnd": "2025-12-31"},
    "requiredExperience": "beginner_to_intermediate"
  },
  "curator": {"id": "curator-1", "preferredStyles": ["contemporary", "experimental"]},
  "candidates": [
    {
      "id": "artist-2", "genres": ["dance"], "workStyles": ["pop"], "experienceYears": 20,
      "rating": 1.0, "isLocal": false, "budget": {"min": 100, "max": 200},
      "availability": {"start": "2025-01-01", "end": "2025-02-01"}
    },
    {
      "id": "artist-1", "genres": ["painting"], "primaryGenre": "painting",
      "workStyles": ["abstract", "contemporary"], "experienceYears": 5, "rating": 4.2,
      "isLocal": true, "budget": {"min": 3000000, "max": 10000000},
      "availability": {"start": "2025-09-01", "end": "2025-12-31"}
    }
  ],
  "audienceModel": {"painting": 0.8}
}`

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, env := doRequest(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		checkers   []database.Checker
		wantStatus int
	}{
		{"no dependencies", nil, http.StatusOK},
		{"all healthy", []database.Checker{stubChecker{name: "postgres"}, stubChecker{name: "redis"}}, http.StatusOK},
		{"redis down", []database.Checker{stubChecker{name: "postgres"}, stubChecker{name: "redis", err: errors.New("dial tcp: refused")}}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, Options{Checkers: tt.checkers})

			resp, env := doRequest(t, http.MethodGet, srv.URL+"/ready", "")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "NOT_READY", env.Code)
				assert.Contains(t, string(env.Data), "redis")
				assert.NotContains(t, string(env.Data), "postgres")
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRankInline(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, env := doRequest(t, http.MethodPost, srv.URL+"/v1/rankings", inlinePayload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run models.RankingRun
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.NotEmpty(t, run.RunID)
	assert.Equal(t, "project-1", run.ProjectID)
	assert.Equal(t, 2, run.TotalCandidates)
	require.Len(t, run.Results, 2)
	assert.Equal(t, "artist-1", run.Results[0].ArtistID)
	assert.Equal(t, 75, run.Results[0].TotalScore)
	assert.Equal(t, 1, run.Results[0].Rank)
	assert.Equal(t, "artist-2", run.Results[1].ArtistID)
}

func TestRankInline_DefaultTopN(t *testing.T) {
	srv := newTestServer(t, Options{DefaultTopN: 1})

	resp, env := doRequest(t, http.MethodPost, srv.URL+"/v1/rankings", inlinePayload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run models.RankingRun
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.Equal(t, 2, run.TotalCandidates)
	assert.Equal(t, 1, run.Returned)
}

func TestRankInline_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"malformed json", `{"project": `, ""},
		{"missing candidates", `{"project": {"id": "p"}, "curator": {"id": "c", "preferredStyles": []}}`, "candidates"},
		{"rating out of range", strings.Replace(inlinePayload, `"rating": 4.2`, `"rating": 9`, 1), "candidates.1.rating"},
		{"inverted budget", strings.Replace(inlinePayload, `"min": 30000000, "max": 50000000`, `"min": 50000000, "max": 30000000`, 1), "project.budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, Options{})

			resp, env := doRequest(t, http.MethodPost, srv.URL+"/v1/rankings", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "error", env.Status)
			if tt.wantField == "" {
				return
			}
			assert.Equal(t, "INVALID_MATCH_INPUT", env.Code)

			reported := make([]string, 0, len(env.Errors))
			for _, e := range env.Errors {
				reported = append(reported, e.Field+" "+e.Message)
			}
			assert.Contains(t, strings.Join(reported, ","), tt.wantField)
		})
	}
}

func TestRankInline_BodyTooLarge(t *testing.T) {
	srv := newTestServer(t, Options{})
	body := `{"pad": "` + strings.Repeat("a", maxBodyBytes) + `"}`

	resp, env := doRequest(t, http.MethodPost, srv.URL+"/v1/rankings", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "body_too_large", env.Code)
}

func TestRankProject(t *testing.T) {
	srv := newTestServer(t, Options{Provider: sampleProvider(t)})

	resp, env := doRequest(t, http.MethodGet, srv.URL+"/v1/projects/autumn-exhibition/rankings?curatorId=curator-kim&topN=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run models.RankingRun
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.Equal(t, "autumn-exhibition", run.ProjectID)
	assert.Equal(t, "curator-kim", run.CuratorID)
	assert.Equal(t, 4, run.TotalCandidates)
	require.Len(t, run.Results, 2)
	assert.GreaterOrEqual(t, run.Results[0].TotalScore, run.Results[1].TotalScore)
}

func TestRankProject_Errors(t *testing.T) {
	tests := []struct {
		name       string
		provider   matching.DataProvider
		path       string
		wantStatus int
		wantCode   string
	}{
		{"unknown project", sampleProvider(t), "/v1/projects/nope/rankings?curatorId=curator-kim", http.StatusNotFound, "PROJECT_NOT_FOUND"},
		{"unknown curator", sampleProvider(t), "/v1/projects/autumn-exhibition/rankings?curatorId=nope", http.StatusNotFound, "CURATOR_NOT_FOUND"},
		{"missing curator id", sampleProvider(t), "/v1/projects/autumn-exhibition/rankings", http.StatusBadRequest, "INVALID_MATCH_INPUT"},
		{"bad topN", sampleProvider(t), "/v1/projects/autumn-exhibition/rankings?curatorId=curator-kim&topN=-3", http.StatusBadRequest, "INVALID_MATCH_INPUT"},
		{"no provider", nil, "/v1/projects/autumn-exhibition/rankings?curatorId=curator-kim", http.StatusServiceUnavailable, "CANDIDATE_SOURCE_FAILED"},
		{"provider failure", brokenProvider{}, "/v1/projects/autumn-exhibition/rankings?curatorId=curator-kim", http.StatusServiceUnavailable, "CANDIDATE_SOURCE_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, Options{Provider: tt.provider})

			resp, env := doRequest(t, http.MethodGet, srv.URL+tt.path, "")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, env.Code)
		})
	}
}

func TestMapDomainError_UnknownErrorsHideDetails(t *testing.T) {
	status, code, msg := mapDomainError(errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", code)
	assert.NotContains(t, msg, "password")
}
