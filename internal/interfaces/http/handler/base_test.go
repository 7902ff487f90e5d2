package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canteen/backend/internal/domain/shared"
	"github.com/canteen/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondErrorDomainError(t *testing.T) {
	c, w := testContext()

	respondError(c, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "PRODUCT_NOT_FOUND", resp.Error.Code)
}

func TestRespondErrorConcurrencyConflict(t *testing.T) {
	c, w := testContext()

	respondError(c, shared.ErrConcurrencyConflict)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRespondErrorUnknownBecomes500(t *testing.T) {
	c, w := testContext()

	respondError(c, errors.New("database exploded"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "exploded")
}

func TestRespondErrorWrappedDomainError(t *testing.T) {
	c, w := testContext()

	wrapped := errors.Join(errors.New("load order"), shared.ErrNotFound)
	respondError(c, wrapped)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPathUUIDRejectsGarbage(t *testing.T) {
	c, w := testContext()
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, ok := pathUUID(c, "id")

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTheaterIDRequiresClaims(t *testing.T) {
	c, w := testContext()

	_, ok := theaterID(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
