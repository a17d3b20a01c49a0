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

func do(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.root)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()

	api := NewDomainGroup("invoices", "/invoices").
		GET("/draft", func(c *gin.Context) { c.String(http.StatusOK, "draft") }).
		POST("/quote", func(c *gin.Context) { c.String(http.StatusOK, "quote") })
	legacy := NewDomainGroup("delivery", "").
		POST("/send-invoice", func(c *gin.Context) { c.String(http.StatusOK, "sent") })

	NewRouter(engine,
		WithNoMethod(func(c *gin.Context) { c.String(http.StatusMethodNotAllowed, "nope") }),
		WithNoRoute(func(c *gin.Context) { c.String(http.StatusNotFound, "missing") }),
	).Register(api).RegisterRoot(legacy).Setup()

	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"versioned GET", http.MethodGet, "/api/v1/invoices/draft", http.StatusOK, "draft"},
		{"versioned POST", http.MethodPost, "/api/v1/invoices/quote", http.StatusOK, "quote"},
		{"root route", http.MethodPost, "/send-invoice", http.StatusOK, "sent"},
		{"root route is not versioned", http.MethodPost, "/api/v1/send-invoice", http.StatusNotFound, "missing"},
		{"wrong method on root route", http.MethodGet, "/send-invoice", http.StatusMethodNotAllowed, "nope"},
		{"wrong method on api route", http.MethodPut, "/api/v1/invoices/quote", http.StatusMethodNotAllowed, "nope"},
		{"unknown path", http.MethodGet, "/nowhere", http.StatusNotFound, "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(engine, tt.method, tt.path)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestSetupWithoutFallbacks(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).RegisterRoot(
		NewDomainGroup("delivery", "").POST("/send-invoice", func(c *gin.Context) {}),
	).Setup()

	assert.False(t, engine.HandleMethodNotAllowed)
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/send-invoice").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("invoices", "/invoices")
		assert.Equal(t, "invoices", g.Name())
		assert.Equal(t, "/invoices", g.Prefix())
	})

	t.Run("applies middleware and skips nil", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("delivery", "/mail")
		g.Use(nil, func(c *gin.Context) {
			c.Header("X-Limited", "yes")
			c.Next()
		})
		g.POST("/send", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(&engine.RouterGroup)

		w := do(engine, http.MethodPost, "/mail/send")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "yes", w.Header().Get("X-Limited"))
		assert.Len(t, g.middleware, 1)
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("system", "/system")
		g.Group("meta", "/meta").GET("/info", func(c *gin.Context) {
			c.String(http.StatusOK, "info")
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := do(engine, http.MethodGet, "/api/v1/system/meta/info")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "info", w.Body.String())
	})
}
