package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/theplanbeta/invoice/internal/interfaces/http/router"
)

// InvoiceRoutes registers the invoice form API under /api/<version>/invoices
func InvoiceRoutes(h *InvoiceHandler) *router.DomainGroup {
	return router.NewDomainGroup("invoices", "/invoices").
		GET("/reference", h.GetReference).
		GET("/draft", h.GetDraft).
		POST("/quote", h.Quote).
		POST("/edit", h.Edit).
		POST("/render", h.Render)
}

// DeliveryRoutes registers POST /send-invoice at the root path the existing
// form posts to. limit may be nil.
func DeliveryRoutes(h *InvoiceHandler, limit gin.HandlerFunc) *router.DomainGroup {
	return router.NewDomainGroup("delivery", "").
		Use(limit).
		POST("/send-invoice", h.SendInvoice)
}

// SystemRoutes registers /api/<version>/system endpoints
func SystemRoutes(h *SystemHandler) *router.DomainGroup {
	return router.NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping)
}

// HealthRoutes registers the unversioned /health check
func HealthRoutes(h *SystemHandler) *router.DomainGroup {
	return router.NewDomainGroup("health", "").
		GET("/health", h.Health)
}

// SwaggerRoutes serves the OpenAPI document and UI at /swagger. The docs
// package must be linked in for doc.json to resolve.
func SwaggerRoutes() *router.DomainGroup {
	return router.NewDomainGroup("swagger", "").
		GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
