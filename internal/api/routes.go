package api

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API surface. Everything except the health
// and QR preview endpoints requires a caller identity.
func RegisterRoutes(r *gin.Engine, h *Handler, adminToken string) {
	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/qr", h.qr)

		authed := api.Group("", RequireIdentity(adminToken))
		authed.POST("/speaker-pack", h.speakerPack)
		authed.GET("/insights", h.insights)
	}
}
