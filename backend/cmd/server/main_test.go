package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"kintree/backend/internal/api"
	"kintree/backend/internal/auth"
	"kintree/backend/internal/memstore"
	"kintree/backend/pkg/config"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Port: "0", Env: "test", CookieSecret: "test-secret"}
	server := api.NewServer(cfg, memstore.New(), auth.NewHMACCodec(cfg.CookieSecret))
	return server.Router()
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "ok", response["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/trees", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterInvalidRequest(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/auth/register", bytes.NewBuffer([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
