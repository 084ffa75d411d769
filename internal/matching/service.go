package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "artmatch/internal/common/errors"
	"artmatch/internal/common/logger"
)

// slowRankingThreshold is the duration above which a ranking pass is logged as slow.
const slowRankingThreshold = 500 * time.Millisecond

// Recorder receives one observation per ranking pass.
type Recorder interface {
	RecordRanking(ctx context.Context, source string, candidates int, duration time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordRanking(context.Context, string, int, time.Duration, error) {}

// Service runs ranking passes over records loaded from a DataProvider or
// supplied inline, recording metrics and logging each pass.
type Service struct {
	ranker   *Ranker
	recorder Recorder
	logger   logger.Logger
}

func NewService(ranker *Ranker, recorder Recorder, log logger.Logger) *Service {
	if ranker == nil {
		ranker = defaultRanker
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{ranker: ranker, recorder: recorder, logger: log}
}

func (s *Service) Ranker() *Ranker { return s.ranker }

// RankCandidates ranks records the caller already holds. source labels the
// pass in metrics ("inline", "worker", ...).
func (s *Service) RankCandidates(ctx context.Context, source string, project ProjectRequest, candidates []Candidate, curator CuratorProfile, audience AudienceModel) []MatchResult {
	start := time.Now()
	s.noteBand(project)
	results := s.ranker.Rank(project, candidates, curator, audience)
	s.observe(ctx, source, project.ID, len(candidates), time.Since(start), nil)
	return results
}

// RankForProject loads the project, curator, candidate pool and audience model
// from provider and ranks the pool.
func (s *Service) RankForProject(ctx context.Context, provider DataProvider, projectID, curatorID string) ([]MatchResult, error) {
	start := time.Now()

	results, n, err := s.rankFromProvider(ctx, provider, projectID, curatorID)
	s.observe(ctx, "provider", projectID, n, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) rankFromProvider(ctx context.Context, provider DataProvider, projectID, curatorID string) ([]MatchResult, int, error) {
	project, err := provider.Project(ctx, projectID)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, 0, apperrors.NewProjectNotFoundError(projectID)
		}
		return nil, 0, apperrors.NewCandidateSourceFailedError("project", err)
	}

	curator, err := provider.Curator(ctx, curatorID)
	if err != nil {
		if errors.Is(err, ErrCuratorNotFound) {
			return nil, 0, apperrors.NewCuratorNotFoundError(curatorID)
		}
		return nil, 0, apperrors.NewCandidateSourceFailedError("curator", err)
	}

	candidates, err := provider.Candidates(ctx, project)
	if err != nil {
		return nil, 0, apperrors.NewCandidateSourceFailedError("candidates", err)
	}

	audience, err := provider.AudienceModel(ctx)
	if err != nil {
		return nil, len(candidates), apperrors.NewAudienceModelUnavailableError(err)
	}

	s.noteBand(project)
	return s.ranker.Rank(project, candidates, curator, audience), len(candidates), nil
}

// noteBand logs projects whose experience band scores the flat default.
func (s *Service) noteBand(project ProjectRequest) {
	if project.RequiredExperience.Known() {
		return
	}
	s.logger.Debug("unknown experience band, using default fit", map[string]interface{}{
		"projectId": project.ID,
		"band":      string(project.RequiredExperience),
	})
}

func (s *Service) observe(ctx context.Context, source, projectID string, n int, d time.Duration, err error) {
	s.recorder.RecordRanking(ctx, source, n, d, err)

	fields := map[string]interface{}{
		"source":     source,
		"projectId":  projectID,
		"candidates": n,
		"durationMs": d.Milliseconds(),
	}
	if err != nil {
		s.logger.WithError(err).Error("ranking failed", fields)
		return
	}
	s.logger.Info("ranking completed", fields)

	if d > slowRankingThreshold {
		s.logger.Warn(fmt.Sprintf("ranking exceeded %s", slowRankingThreshold), fields)
	}
}
