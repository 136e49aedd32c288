package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldcrew/coating-scheduler/internal/workers"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRegistry struct {
	ids map[string]string
	err error
}

func (s *stubRegistry) EnsureWorker(_ context.Context, w workers.UpsertWorker) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.ids[w.ExternalID], nil
}

func (s *stubRegistry) GetByID(_ context.Context, id string) (*workers.Worker, error) {
	for ext, wid := range s.ids {
		if wid == id {
			return &workers.Worker{ID: id, ExternalID: ext}, nil
		}
	}
	return nil, workers.ErrNotFound
}

func setupRouter(reg WorkerRegistry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/field")
	g.Use(WithWorker(reg))
	g.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, WorkerID(c))
	})
	RegisterRoutes(g, reg)
	return r
}

func TestWithWorker(t *testing.T) {
	reg := &stubRegistry{ids: map[string]string{"crew-1": "w-uuid-1"}}
	router := setupRouter(reg)

	t.Run("resolves the worker id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/field/whoami", nil)
		req.Header.Set("X-Worker-Id", "crew-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "w-uuid-1", w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/field/whoami", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("registry failure", func(t *testing.T) {
		broken := setupRouter(&stubRegistry{err: errors.New("db down")})
		req := httptest.NewRequest(http.MethodGet, "/field/whoami", nil)
		req.Header.Set("X-Worker-Id", "crew-1")
		w := httptest.NewRecorder()
		broken.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("me", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/field/me", nil)
		req.Header.Set("X-Worker-Id", "crew-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Worker workers.Worker `json:"worker"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "crew-1", body.Worker.ExternalID)
	})
}
