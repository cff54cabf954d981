package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEchoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewEchoHandler().RegisterRoutes(&router.RouterGroup)
	return router
}

func TestEcho_Get(t *testing.T) {
	router := newEchoRouter()

	req := httptest.NewRequest(http.MethodGet, "/echo", strings.NewReader("ping"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ping", w.Body.String())
}

func TestEcho_PostPreservesContentType(t *testing.T) {
	router := newEchoRouter()

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"hello":"world"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"hello":"world"}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&limit=50", 3, 50},
		{"zero page", "page=0&limit=10", 1, 10},
		{"negative limit", "page=2&limit=-5", 2, 20},
		{"limit capped at 100", "page=1&limit=500", 1, 100},
		{"garbage", "page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/pickups?"+tt.query, nil)

			page, limit := parsePagination(c)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
