package responses_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayuwidodo/belanja-backend/api/responses"
	pkgerrors "github.com/bayuwidodo/belanja-backend/pkg/errors"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteSuccessWrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	responses.WriteSuccess(rec, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "world", data["hello"])
}

func TestWriteSuccessStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	responses.WriteSuccessStatus(rec, http.StatusCreated, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestWriteAccepted(t *testing.T) {
	rec := httptest.NewRecorder()
	responses.WriteAccepted(rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestWriteErrorUsesCodeMetadata(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInsufficientStock, "only 2 left")

	responses.WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(pkgerrors.CodeInsufficientStock), errObj["code"])
	assert.Equal(t, "only 2 left", errObj["message"])
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInternal, "db connection string leaked")

	responses.WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "internal server error", errObj["message"])
	assert.NotContains(t, rec.Body.String(), "leaked")
}

func TestWriteErrorWrapsUntypedError(t *testing.T) {
	rec := httptest.NewRecorder()

	responses.WriteError(context.Background(), nil, rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, string(pkgerrors.CodeInternal), errObj["code"])
}

func TestWriteErrorDetailsGatedByMetadata(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"quantity": "must be at least 1"})

	responses.WriteError(context.Background(), nil, rec, err)

	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	details, ok := errObj["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "must be at least 1", details["quantity"])

	// Codes without DetailsAllowed never leak their details.
	rec = httptest.NewRecorder()
	err = pkgerrors.New(pkgerrors.CodeCommitFailed, "tx aborted").
		WithDetails(map[string]string{"table": "orders"})
	responses.WriteError(context.Background(), nil, rec, err)
	body = decodeBody(t, rec)
	errObj = body["error"].(map[string]any)
	_, hasDetails := errObj["details"]
	assert.False(t, hasDetails)
}
