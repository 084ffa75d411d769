package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"artmatch/internal/common/database"
	apperrors "artmatch/internal/common/errors"
	"artmatch/internal/common/validation"
	"artmatch/internal/matching"
	"artmatch/internal/models"
)

const sourceHTTP = "http"

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	failures := database.CheckAll(r.Context(), h.readyTimeout, h.checkers...)
	if len(failures) == 0 {
		writeSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	details := make(map[string]string, len(failures))
	for name, err := range failures {
		details[name] = err.Error()
	}
	h.logger.Warn("readiness check failed", map[string]interface{}{"failures": details})
	writeJSON(w, http.StatusServiceUnavailable, map[string]any{
		"status": "error",
		"code":   "NOT_READY",
		"data":   details,
	})
}

func (h *Handler) rankInline(w http.ResponseWriter, r *http.Request) {
	reqID := requestIDFromContext(r.Context())

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), reqID)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error(), reqID)
		return
	}

	req, vr, err := validation.ValidatePayload(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), reqID)
		return
	}
	if !vr.Valid {
		writeValidationError(w, vr, reqID)
		return
	}

	project, curator, candidates, audience, err := req.Resolve()
	if err != nil {
		status, code, msg := mapDomainError(apperrors.NewInvalidMatchInputError(err.Error()))
		writeError(w, status, code, msg, reqID)
		return
	}

	start := time.Now()
	results := h.service.RankCandidates(r.Context(), sourceHTTP, project, candidates, curator, audience)
	writeSuccess(w, http.StatusOK, h.newRun(project.ID, curator.ID, results, req.TopN, start))
}

func (h *Handler) rankProject(w http.ResponseWriter, r *http.Request) {
	reqID := requestIDFromContext(r.Context())
	projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
	curatorID := strings.TrimSpace(r.URL.Query().Get("curatorId"))

	if curatorID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_MATCH_INPUT", "curatorId query parameter is required", reqID)
		return
	}

	topN := 0
	if raw := r.URL.Query().Get("topN"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "INVALID_MATCH_INPUT", "topN must be a non-negative integer", reqID)
			return
		}
		topN = n
	}

	if h.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "CANDIDATE_SOURCE_FAILED", "no data provider configured", reqID)
		return
	}

	start := time.Now()
	results, err := h.service.RankForProject(r.Context(), h.provider, projectID, curatorID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg, reqID)
		return
	}
	writeSuccess(w, http.StatusOK, h.newRun(projectID, curatorID, results, topN, start))
}

func (h *Handler) newRun(projectID, curatorID string, results []matching.MatchResult, topN int, start time.Time) models.RankingRun {
	if topN == 0 {
		topN = h.defaultTopN
	}
	records := models.FromMatchResults(results, topN)
	return models.RankingRun{
		RunID:           uuid.NewString(),
		ProjectID:       projectID,
		CuratorID:       curatorID,
		TotalCandidates: len(results),
		Returned:        len(records),
		DurationMs:      time.Since(start).Milliseconds(),
		Results:         records,
	}
}
