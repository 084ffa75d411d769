// internal/workers/matching/calculate-match-score/handler.go
package calculatematchscore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "artmatch/internal/common/errors"
	"artmatch/internal/common/logger"
	"artmatch/internal/common/metrics"
	"artmatch/internal/common/validation"
	"artmatch/internal/matching"
	"artmatch/internal/models"
)

const (
	TaskType = "calculate-match-score"
)

type Handler struct {
	config       *Config
	ranker       *matching.Ranker
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, ranker *matching.Ranker, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if ranker == nil {
		ranker = matching.NewRanker()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		ranker:       ranker,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, apperrors.NewInvalidMatchInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	candidate, err := input.Candidate.ToCandidate()
	if err != nil {
		return nil, apperrors.NewInvalidMatchInputError("candidate." + err.Error())
	}
	project, err := input.Project.ToProject()
	if err != nil {
		return nil, apperrors.NewInvalidMatchInputError("project." + err.Error())
	}

	result := h.ranker.Score(candidate, project, input.Curator.ToCurator(), matching.NewAudienceModel(input.AudienceModel))
	record := models.FromMatchResult(1, result)

	h.logger.Debug("match score calculated", map[string]interface{}{
		"artistId":   record.ArtistID,
		"projectId":  project.ID,
		"matchScore": record.TotalScore,
	})

	return &Output{
		ArtistID:    record.ArtistID,
		MatchScore:  record.TotalScore,
		Breakdown:   record.Breakdown,
		Explanation: record.Explanation,
	}, nil
}

func validate(input *Input) error {
	if input == nil {
		return apperrors.NewInvalidMatchInputError("input cannot be nil")
	}

	missing := []string{}
	if input.Candidate == nil {
		missing = append(missing, "candidate")
	}
	if input.Project == nil {
		missing = append(missing, "project")
	}
	if input.Curator == nil {
		missing = append(missing, "curator")
	}
	if len(missing) > 0 {
		return apperrors.NewInvalidMatchInputError(fmt.Sprintf("required fields missing: %v", missing))
	}

	req := models.RankRequest{
		Project:       *input.Project,
		Curator:       *input.Curator,
		Candidates:    []models.ArtistRecord{*input.Candidate},
		AudienceModel: input.AudienceModel,
	}
	return validation.ValidateRequest(&req).ToError()
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(ctx)
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := apperrors.AsStandardError(err).Code
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
