package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "github.com/fieldcrew/coating-scheduler/internal/api/http"
	schedhttp "github.com/fieldcrew/coating-scheduler/internal/scheduling/http"
	"github.com/fieldcrew/coating-scheduler/internal/workers"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRegistry struct {
	ensured []string
}

func (s *stubRegistry) EnsureWorker(_ context.Context, w workers.UpsertWorker) (string, error) {
	s.ensured = append(s.ensured, w.ExternalID)
	return "db-" + w.ExternalID, nil
}

func (s *stubRegistry) GetByID(_ context.Context, id string) (*workers.Worker, error) {
	return &workers.Worker{ID: id}, nil
}

func testRouter(t *testing.T, reg *stubRegistry) *gin.Engine {
	return testRouterWithLimit(t, reg, 100, 10)
}

func testRouterWithLimit(t *testing.T, reg *stubRegistry, rps float64, burst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return BuildRouter(RouterDeps{
		ServiceName:    "coating-scheduler",
		Version:        "test",
		AllowedOrigins: []string{"https://office.example.com"},
		AdminAPIKey:    "k",
		FieldRPS:       rps,
		FieldBurst:     burst,
		Checks: []httpapi.Check{
			{Name: "postgres", Ping: func(context.Context) error { return nil }},
			{Name: "redis", Ping: func(context.Context) error { return errors.New("down") }},
		},
		Scheduling: schedhttp.New(nil, nil, nil, nil),
		Workers:    reg,
	})
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBuildRouter_Health(t *testing.T) {
	r := testRouter(t, &stubRegistry{})

	for _, path := range []string{"/health", "/healthz", "/api/v1/health"} {
		w := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	}
}

func TestBuildRouter_AdminRequiresKey(t *testing.T) {
	r := testRouter(t, &stubRegistry{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/admin/schedule/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/schedule/metrics", nil)
	req.Header.Set("X-API-Key", "k")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildRouter_FieldRequiresWorker(t *testing.T) {
	reg := &stubRegistry{}
	r := testRouter(t, reg)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/field/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/field/me", nil)
	req.Header.Set("X-Worker-Id", "crew-7")
	w = serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"db-crew-7"`)
	assert.Equal(t, []string{"crew-7"}, reg.ensured)
}

func TestBuildRouter_FieldThrottledBeforeWorkerLookup(t *testing.T) {
	reg := &stubRegistry{}
	r := testRouterWithLimit(t, reg, 0.001, 1)

	call := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/field/me", nil)
		req.Header.Set("X-Worker-Id", "crew-7")
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusOK, call())
	assert.Equal(t, http.StatusTooManyRequests, call())
	assert.Equal(t, http.StatusTooManyRequests, call())
	assert.Equal(t, []string{"crew-7"}, reg.ensured, "throttled requests never upsert the worker")
}

func TestBuildRouter_CORS(t *testing.T) {
	r := testRouter(t, &stubRegistry{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/admin/schedule/metrics", nil)
	req.Header.Set("Origin", "https://office.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://office.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/admin/schedule/metrics", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	SetGinMode("production")
	assert.Equal(t, gin.ReleaseMode, gin.Mode())

	SetGinMode("test")
	assert.Equal(t, gin.TestMode, gin.Mode())
}
