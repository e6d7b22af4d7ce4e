package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeMissingFields, http.StatusBadRequest},
		{shared.CodeInvalidInput, http.StatusBadRequest},
		{shared.CodeUnauthorized, http.StatusUnauthorized},
		{shared.CodeForbidden, http.StatusForbidden},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeConflict, http.StatusConflict},
		{shared.CodeInvalidInvoiceType, http.StatusInternalServerError},
		{shared.CodeUpstreamSubmissionFailed, http.StatusInternalServerError},
		{shared.CodeUpstreamDeleteFailed, http.StatusInternalServerError},
		{shared.CodeInsufficientStock, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponse_Envelope(t *testing.T) {
	raw, err := json.Marshal(NewErrorResponseWithRequestID(shared.CodeNotFound, "Invoice not found", "req-1"))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invoice not found", body["message"])
	assert.Equal(t, "req-1", body["request_id"])
	assert.NotContains(t, body, "data")

	errInfo := body["error"].(map[string]any)
	assert.Equal(t, shared.CodeNotFound, errInfo["code"])
	assert.Equal(t, "Invoice not found", errInfo["message"])
}

func TestNewUpstreamErrorResponse_CarriesData(t *testing.T) {
	upstream := json.RawMessage(`{"message":"rejected","validationResults":{"status":"ERROR"}}`)
	raw, err := json.Marshal(NewUpstreamErrorResponse(shared.CodeUpstreamSubmissionFailed, "rejected", upstream, ""))
	require.NoError(t, err)

	var body struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
	assert.Equal(t, "rejected", body.Message)
	assert.JSONEq(t, string(upstream), string(body.Data))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		pageSize int
		pages    int
	}{
		{"exact", 40, 20, 2},
		{"partial", 41, 20, 3},
		{"empty", 0, 20, 0},
		{"zero page size", 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta([]int{}, tt.total, 1, tt.pageSize)
			require.NotNil(t, resp.Meta)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.pages, resp.Meta.TotalPages)
		})
	}
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{
		{Field: "item_name", Message: "This field is required"},
	})
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(resp.Error.Code))
}
