package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FocusFish/USM/internal/usecase"
)

// AdminHandler exposes the administrative cache-clearing endpoints.
type AdminHandler struct {
	admin *usecase.AdminService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admin *usecase.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// RegisterRoutes binds administration routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.DELETE("/userSessions", h.clearUserSessions)
	r.DELETE("/policyCache", h.clearPolicyCache)
}

// clearUserSessions drops every tracked session.
func (h *AdminHandler) clearUserSessions(c *gin.Context) {
	h.admin.ClearUserSessions(c.Request.Context())
	c.JSON(http.StatusOK, MessageResponse{Message: "user sessions cleared"})
}

// clearPolicyCache invalidates the policy cache.
func (h *AdminHandler) clearPolicyCache(c *gin.Context) {
	h.admin.ClearPolicyCache(c.Request.Context())
	c.JSON(http.StatusOK, MessageResponse{Message: "policy cache cleared"})
}
