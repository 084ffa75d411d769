package api

import (
	"encoding/json"
	"net/http"

	apperrors "artmatch/internal/common/errors"
	"artmatch/internal/common/validation"
)

type apiError struct {
	Status    string                       `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Errors    []validation.ValidationError `json:"errors,omitempty"`
	RequestID string                       `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message, requestID string) {
	writeJSON(w, statusCode, apiError{
		Status:    "error",
		Code:      code,
		Message:   message,
		RequestID: requestID,
	})
}

func writeValidationError(w http.ResponseWriter, vr *validation.ValidationResult, requestID string) {
	writeJSON(w, http.StatusBadRequest, apiError{
		Status:    "error",
		Code:      string(apperrors.ErrCodeInvalidMatchInput),
		Message:   "request failed validation",
		Errors:    vr.Errors,
		RequestID: requestID,
	})
}

// mapDomainError picks the HTTP status for a ranking error. Unknown errors
// surface as 500 without their details.
func mapDomainError(err error) (int, string, string) {
	stdErr := apperrors.AsStandardError(err)
	switch apperrors.GetErrorCategory(stdErr.Code) {
	case "VALIDATION":
		return http.StatusBadRequest, string(stdErr.Code), stdErr.Details
	case "NOT_FOUND":
		return http.StatusNotFound, string(stdErr.Code), stdErr.Details
	case "SOURCE", "DATABASE", "SEARCH":
		return http.StatusServiceUnavailable, string(stdErr.Code), stdErr.Message
	default:
		return http.StatusInternalServerError, string(apperrors.ErrCodeInternal), "internal server error"
	}
}
