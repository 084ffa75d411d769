package matching

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "artmatch/internal/common/errors"
	"artmatch/internal/common/logger"
)

type fakeProvider struct {
	project     ProjectRequest
	curator     CuratorProfile
	candidates  []Candidate
	audience    AudienceModel
	projectErr  error
	curatorErr  error
	poolErr     error
	audienceErr error
}

func (f *fakeProvider) Project(_ context.Context, id string) (ProjectRequest, error) {
	if f.projectErr != nil {
		return ProjectRequest{}, f.projectErr
	}
	if id != f.project.ID {
		return ProjectRequest{}, ErrProjectNotFound
	}
	return f.project, nil
}

func (f *fakeProvider) Curator(_ context.Context, id string) (CuratorProfile, error) {
	if f.curatorErr != nil {
		return CuratorProfile{}, f.curatorErr
	}
	if id != f.curator.ID {
		return CuratorProfile{}, ErrCuratorNotFound
	}
	return f.curator, nil
}

func (f *fakeProvider) Candidates(context.Context, ProjectRequest) ([]Candidate, error) {
	return f.candidates, f.poolErr
}

func (f *fakeProvider) AudienceModel(context.Context) (AudienceModel, error) {
	return f.audience, f.audienceErr
}

type recordedRanking struct {
	source     string
	candidates int
	err        error
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedRanking
}

func (r *fakeRecorder) RecordRanking(_ context.Context, source string, candidates int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedRanking{source: source, candidates: candidates, err: err})
}

func newFakeProvider() *fakeProvider {
	c, p, cur, audience := referenceScenario()
	other := c
	other.ID = "artist-2"
	other.ExperienceYears = 15
	return &fakeProvider{project: p, curator: cur, candidates: []Candidate{other, c}, audience: audience}
}

func TestService_RankForProject(t *testing.T) {
	provider := newFakeProvider()
	rec := &fakeRecorder{}
	svc := NewService(nil, rec, logger.NewTestLogger(t))

	results, err := svc.RankForProject(context.Background(), provider, "project-1", "curator-1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "artist-1", results[0].Candidate.ID)
	assert.Equal(t, 75, results[0].TotalScore)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "provider", rec.calls[0].source)
	assert.Equal(t, 2, rec.calls[0].candidates)
	assert.NoError(t, rec.calls[0].err)
}

func TestService_RankForProject_Errors(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name      string
		projectID string
		curatorID string
		mutate    func(*fakeProvider)
		wantCode  apperrors.ErrorCode
	}{
		{"unknown project", "nope", "curator-1", nil, apperrors.ErrCodeProjectNotFound},
		{"unknown curator", "project-1", "nope", nil, apperrors.ErrCodeCuratorNotFound},
		{"project lookup fails", "project-1", "curator-1", func(f *fakeProvider) { f.projectErr = boom }, apperrors.ErrCodeCandidateSourceFailed},
		{"curator lookup fails", "project-1", "curator-1", func(f *fakeProvider) { f.curatorErr = boom }, apperrors.ErrCodeCandidateSourceFailed},
		{"pool fails", "project-1", "curator-1", func(f *fakeProvider) { f.poolErr = boom }, apperrors.ErrCodeCandidateSourceFailed},
		{"audience fails", "project-1", "curator-1", func(f *fakeProvider) { f.audienceErr = boom }, apperrors.ErrCodeAudienceModelUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newFakeProvider()
			if tt.mutate != nil {
				tt.mutate(provider)
			}
			rec := &fakeRecorder{}
			svc := NewService(NewRanker(), rec, logger.NewNoOpLogger())

			results, err := svc.RankForProject(context.Background(), provider, tt.projectID, tt.curatorID)
			require.Error(t, err)
			assert.Nil(t, results)
			assert.Equal(t, tt.wantCode, apperrors.AsStandardError(err).Code)

			require.Len(t, rec.calls, 1)
			assert.Error(t, rec.calls[0].err)
		})
	}
}

func TestService_RankCandidates(t *testing.T) {
	c, p, cur, audience := referenceScenario()
	rec := &fakeRecorder{}
	svc := NewService(nil, rec, nil)

	results := svc.RankCandidates(context.Background(), "inline", p, []Candidate{c}, cur, audience)
	require.Len(t, results, 1)
	assert.Equal(t, 75, results[0].TotalScore)
	assert.Equal(t, "inline", rec.calls[0].source)
	assert.NotNil(t, svc.Ranker())
}

func TestService_LogsUnknownExperienceBand(t *testing.T) {
	tests := []struct {
		name    string
		band    ExperienceBand
		wantLog bool
	}{
		{"known band", BandExpert, false},
		{"unknown band", ExperienceBand("master"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			svc := NewService(nil, nil, logger.NewZapAdapter(zap.New(core)))

			project := ProjectRequest{ID: "p1", RequiredExperience: tt.band}
			svc.RankCandidates(context.Background(), "test", project, nil, CuratorProfile{}, nil)

			entries := logs.FilterMessage("unknown experience band, using default fit").All()
			if !tt.wantLog {
				assert.Empty(t, entries)
				return
			}
			require.Len(t, entries, 1)
			assert.Equal(t, "master", entries[0].ContextMap()["band"])
		})
	}
}
