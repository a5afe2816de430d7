package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsyosefali/saas-package-management/internal/shared/errors"
)

func recordError(t *testing.T, err error) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponseWithError(c, err)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestErrorResponseWithError_ConflictBecomesRetryInstruction(t *testing.T) {
	w, resp := recordError(t, errors.NewConflictError("site was modified concurrently"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Document has been modified. Please refresh and try again.", resp.Error.Message)
}

func TestErrorResponseWithError_NonConflictKeepsMessage(t *testing.T) {
	w, resp := recordError(t, errors.NewNotFoundError("Instance not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Instance not found", resp.Error.Message)
}
