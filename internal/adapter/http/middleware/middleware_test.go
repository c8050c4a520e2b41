package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"svc-wallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTraceID_AdoptsHeader(t *testing.T) {
	r := gin.New()
	r.Use(TraceID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, response.GetTraceID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderTraceID, "trace-abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-abc", w.Body.String())
	assert.Equal(t, "trace-abc", w.Header().Get(HeaderTraceID))
}

func TestTraceID_MintsWhenMissing(t *testing.T) {
	r := gin.New()
	r.Use(TraceID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, response.GetTraceID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	id, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
	assert.Equal(t, id.String(), w.Header().Get(HeaderTraceID))
}

func TestRecovery_ReturnsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(TraceID(), Recovery(zerolog.Nop()))
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "WALLET_INTERNAL_ERROR", body.Error.Code)
	assert.NotEmpty(t, body.Meta.TraceID)
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(TraceID(), RequestLogger(zerolog.Nop()))
	r.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
