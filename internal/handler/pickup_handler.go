package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wastenot/service-pickup/internal/application"
	"github.com/wastenot/service-pickup/internal/platform/auth"
	"github.com/wastenot/service-pickup/internal/platform/middleware"
	"github.com/wastenot/service-pickup/internal/platform/response"
)

// PickupHandler handles HTTP requests for pickup operations.
type PickupHandler struct {
	service *application.PickupService
}

// NewPickupHandler creates a new PickupHandler.
func NewPickupHandler(service *application.PickupService) *PickupHandler {
	return &PickupHandler{service: service}
}

// RegisterRoutes registers all pickup routes on the given router group.
func (h *PickupHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	pickups := r.Group("/api/v1/pickups")
	pickups.Use(authMW)
	{
		pickups.POST("", middleware.RequireRole(auth.RoleResident), h.SchedulePickup)
		pickups.GET("", middleware.RequireRole(auth.RoleResident), h.ListPickups)
		pickups.GET("/:id", h.GetPickup)
		pickups.POST("/:id/cancel", middleware.RequireRole(auth.RoleResident), h.CancelPickup)
	}
}

// SchedulePickup handles POST /api/v1/pickups.
func (h *PickupHandler) SchedulePickup(c *gin.Context) {
	residentID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.SchedulePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SchedulePickup(c.Request.Context(), residentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListPickups handles GET /api/v1/pickups. Residents see their own pickups.
func (h *PickupHandler) ListPickups(c *gin.Context) {
	residentID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.GetResidentPickups(c.Request.Context(), residentID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetPickup handles GET /api/v1/pickups/:id.
func (h *PickupHandler) GetPickup(c *gin.Context) {
	pickupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pickup ID")
		return
	}

	callerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	role, _ := middleware.GetUserRole(c)

	result, err := h.service.GetPickup(c.Request.Context(), pickupID, callerID, role == auth.RoleDispatcher)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelPickup handles POST /api/v1/pickups/:id/cancel.
func (h *PickupHandler) CancelPickup(c *gin.Context) {
	pickupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid pickup ID")
		return
	}

	residentID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := h.service.CancelPickup(c.Request.Context(), pickupID, residentID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
