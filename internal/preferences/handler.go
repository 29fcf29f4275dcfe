package preferences

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches email preference routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me/email-preferences", h.get)
	rg.PUT("/me/email-preferences", h.update)
}

func (h *Handler) get(c *gin.Context) {
	userID := strings.TrimSpace(middleware.UserIDFromContext(c))
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	prefs, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load preferences", nil)
		return
	}
	respond.OK(c, prefs)
}

type updateRequest struct {
	JobAlerts          string `json:"jobAlerts"`
	ApplicationUpdates *bool  `json:"applicationUpdates"`
	Marketing          *bool  `json:"marketing"`
}

func (h *Handler) update(c *gin.Context) {
	userID := strings.TrimSpace(middleware.UserIDFromContext(c))
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	// Start from current values so partial updates don't clobber fields.
	current, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load preferences", nil)
		return
	}
	if req.JobAlerts != "" {
		if !ValidJobAlerts(req.JobAlerts) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "jobAlerts must be daily, weekly or never", nil)
			return
		}
		current.JobAlerts = req.JobAlerts
	}
	if req.ApplicationUpdates != nil {
		current.ApplicationUpdates = *req.ApplicationUpdates
	}
	if req.Marketing != nil {
		current.Marketing = *req.Marketing
	}

	updated, err := h.Svc.Update(c.Request.Context(), current)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update preferences", nil)
		return
	}
	respond.OK(c, updated)
}
