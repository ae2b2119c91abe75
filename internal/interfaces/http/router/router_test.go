package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("templates", "/templates").
		GET("/:id", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("id"))
		})
	r.Register(group).Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates/abc", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", w.Body.String())
}

func TestDomainGroupMethods(t *testing.T) {
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }

	g := NewDomainGroup("rules", "/rules").
		GET("/:id", ok).
		POST("", ok).
		PUT("/:id", ok).
		PATCH("/:id", ok).
		DELETE("/:id", ok)

	assert.Equal(t, "rules", g.Name())
	assert.Equal(t, "/rules", g.Prefix())
	assert.Equal(t, []string{
		"GET /:id", "POST ", "PUT /:id", "PATCH /:id", "DELETE /:id",
	}, g.Routes())

	engine := gin.New()
	g.RegisterRoutes(engine.Group("/api/v1"))

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/rules/1"},
		{http.MethodPost, "/api/v1/rules"},
		{http.MethodPut, "/api/v1/rules/1"},
		{http.MethodPatch, "/api/v1/rules/1"},
		{http.MethodDelete, "/api/v1/rules/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method, w.Body.String())
		})
	}
}

func TestDomainGroupMiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()

	var seen []string
	g := NewDomainGroup("templates", "/templates").Use(func(c *gin.Context) {
		seen = append(seen, c.FullPath())
		c.Next()
	})
	g.Group("variants", "/:id/variants").GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "variants of "+c.Param("id"))
	})
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/templates/t1/variants", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "variants of t1", w.Body.String())
	assert.Equal(t, []string{"/api/v1/templates/:id/variants"}, seen)
}
