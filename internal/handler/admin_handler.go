package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wastenot/service-pickup/internal/application"
	"github.com/wastenot/service-pickup/internal/platform/auth"
	"github.com/wastenot/service-pickup/internal/platform/middleware"
	"github.com/wastenot/service-pickup/internal/platform/response"
)

// AdminPickupHandler handles dispatcher HTTP requests for pickup management.
type AdminPickupHandler struct {
	service *application.PickupService
}

// NewAdminPickupHandler creates a new AdminPickupHandler.
func NewAdminPickupHandler(service *application.PickupService) *AdminPickupHandler {
	return &AdminPickupHandler{service: service}
}

// RegisterRoutes registers dispatcher pickup routes.
func (h *AdminPickupHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	dispatcherRole := middleware.RequireRole(auth.RoleDispatcher)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, dispatcherRole)
	{
		admin.GET("/pickups", h.ListPickups)
		admin.GET("/stats/pickups", h.PickupStats)
	}
}

// ListPickups handles GET /api/v1/admin/pickups.
func (h *AdminPickupHandler) ListPickups(c *gin.Context) {
	page, limit := parsePagination(c)

	pickups, total, err := h.service.ListAllPickups(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, pickups, total, page, limit)
}

// PickupStats handles GET /api/v1/admin/stats/pickups.
func (h *AdminPickupHandler) PickupStats(c *gin.Context) {
	stats, err := h.service.GetPickupStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
