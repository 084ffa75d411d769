package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeCandidateSourceFailed, 3},
		{ErrCodeQueryExecutionFailed, 3},
		{ErrCodeSearchQueryFailed, 3},
		{ErrCodeAudienceModelUnavailable, 2},
		{ErrCodeInvalidMatchInput, 0},
		{ErrCodeProjectNotFound, 0},
		{ErrCodeRankingFailed, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
			assert.Equal(t, tt.want > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable keeps policy retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewQueryExecutionFailedError("candidates", fmt.Errorf("boom")))
		assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmn.Code)
		assert.Equal(t, 3, bpmn.Retries)
		assert.True(t, bpmn.Retryable)

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["originalErrorCode"])
		assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["errorCode"])
	})

	t.Run("business error has no retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewProjectNotFoundError("p-1"))
		assert.Equal(t, "PROJECT_NOT_FOUND", bpmn.Code)
		assert.Zero(t, bpmn.Retries)
		assert.Contains(t, bpmn.Details, "p-1")
	})

	t.Run("unknown code falls through", func(t *testing.T) {
		bpmn := ConvertToBPMNError(&StandardError{Code: "SOMETHING_ELSE", Retryable: true})
		assert.Equal(t, "SOMETHING_ELSE", bpmn.Code)
		assert.Zero(t, bpmn.Retries)
	})
}

func TestAsStandardError(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := fmt.Errorf("load: %w", NewDatabaseConnectionFailedError(cause))

	stdErr := AsStandardError(wrapped)
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeDatabaseConnectionFailed, stdErr.Code)
	assert.ErrorIs(t, stdErr, cause)

	plain := AsStandardError(stderrors.New("oops"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.False(t, plain.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", GetErrorCategory(ErrCodeCuratorNotFound))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeDatabaseConnectionFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "SOURCE", GetErrorCategory(ErrCodeAudienceModelUnavailable))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidMatchInput))
	assert.Equal(t, "RANKING", GetErrorCategory(ErrCodeRankingFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
