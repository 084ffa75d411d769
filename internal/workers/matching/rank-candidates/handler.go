// internal/workers/matching/rank-candidates/handler.go
package rankcandidates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	apperrors "artmatch/internal/common/errors"
	"artmatch/internal/common/logger"
	"artmatch/internal/common/metrics"
	"artmatch/internal/common/validation"
	"artmatch/internal/matching"
	"artmatch/internal/models"
)

const (
	TaskType = "rank-candidates"
)

var (
	ErrNilInput   = errors.New("input cannot be nil")
	ErrNoProvider = errors.New("no data provider configured for id lookups")
)

type Handler struct {
	config       *Config
	service      *matching.Service
	provider     matching.DataProvider
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the worker. provider may be nil, in which case only
// inline payloads can be ranked.
func NewHandler(config *Config, service *matching.Service, provider matching.DataProvider, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if service == nil {
		service = matching.NewService(nil, nil, log)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		service:      service,
		provider:     provider,
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

	input, err := parseInput(job.Variables)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func parseInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidMatchInputError(fmt.Sprintf("parse input: %v", err))
	}
	input.raw = json.RawMessage(variables)
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInvalidMatchInputError(ErrNilInput.Error())
	}

	start := time.Now()

	var (
		run     models.RankingRun
		results []matching.MatchResult
		topN    = input.TopN
	)

	if input.Inline() {
		req, err := h.validateInline(input)
		if err != nil {
			return nil, err
		}
		project, curator, candidates, audience, err := req.Resolve()
		if err != nil {
			return nil, apperrors.NewInvalidMatchInputError(err.Error())
		}
		results = h.service.RankCandidates(ctx, TaskType, project, candidates, curator, audience)
		run.ProjectID, run.CuratorID = project.ID, curator.ID
		topN = req.TopN
	} else {
		if input.ProjectID == "" || input.CuratorID == "" {
			return nil, apperrors.NewInvalidMatchInputError("projectId and curatorId are required when no inline payload is given")
		}
		if input.TopN < 0 {
			return nil, apperrors.NewInvalidMatchInputError("topN: must not be negative")
		}
		if h.provider == nil {
			return nil, apperrors.NewRankingFailedError(ErrNoProvider)
		}
		var err error
		results, err = h.service.RankForProject(ctx, h.provider, input.ProjectID, input.CuratorID)
		if err != nil {
			return nil, err
		}
		run.ProjectID, run.CuratorID = input.ProjectID, input.CuratorID
	}

	if topN == 0 {
		topN = h.config.DefaultTopN
	}

	run.RunID = uuid.NewString()
	run.TotalCandidates = len(results)
	run.Results = models.FromMatchResults(results, topN)
	run.Returned = len(run.Results)
	run.DurationMs = time.Since(start).Milliseconds()

	h.logger.Info("ranking run finished", map[string]interface{}{
		"runId":       run.RunID,
		"projectId":   run.ProjectID,
		"inputCount":  run.TotalCandidates,
		"outputCount": run.Returned,
		"durationMs":  run.DurationMs,
	})

	return &Output{RankingRun: run}, nil
}

// validateInline schema-checks the payload as received from the job when it
// is available, and the re-encoded input otherwise.
func (h *Handler) validateInline(input *Input) (*models.RankRequest, error) {
	raw := input.raw
	if len(raw) == 0 {
		encoded, err := json.Marshal(input.rankRequest())
		if err != nil {
			return nil, apperrors.NewInvalidMatchInputError(err.Error())
		}
		raw = encoded
	}

	req, result, err := validation.ValidatePayload(raw)
	if err != nil {
		return nil, apperrors.NewInvalidMatchInputError(err.Error())
	}
	if err := result.ToError(); err != nil {
		return nil, err
	}
	return req, nil
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
