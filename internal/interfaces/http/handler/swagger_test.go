package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theplanbeta/invoice/internal/interfaces/http/router"

	_ "github.com/theplanbeta/invoice/docs"
)

func setupSwaggerRouter() *gin.Engine {
	engine := gin.New()
	router.NewRouter(engine).RegisterRoot(SwaggerRoutes()).Setup()
	return engine
}

func TestSwaggerRoutes(t *testing.T) {
	engine := setupSwaggerRouter()

	t.Run("serves the OpenAPI document", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var doc struct {
			Info struct {
				Title string `json:"title"`
			} `json:"info"`
			Paths map[string]map[string]any `json:"paths"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Equal(t, "Plan Beta Invoice API", doc.Info.Title)
		for path, method := range map[string]string{
			"/api/v1/invoices/reference": "get",
			"/api/v1/invoices/draft":     "get",
			"/api/v1/invoices/quote":     "post",
			"/api/v1/invoices/edit":      "post",
			"/api/v1/invoices/render":    "post",
			"/api/v1/system/info":        "get",
			"/api/v1/system/ping":        "get",
			"/send-invoice":              "post",
			"/health":                    "get",
		} {
			assert.Contains(t, doc.Paths[path], method, path)
		}
	})

	t.Run("serves the UI", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "swagger-ui")
	})
}
