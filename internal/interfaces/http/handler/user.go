package handler

import (
	partyapp "github.com/agribase/backend/internal/application/party"
	"github.com/agribase/backend/internal/interfaces/http/dto"
	"github.com/agribase/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler exposes the tenant-scoped user listing. System administrator
// accounts never appear in its results.
type UserHandler struct {
	BaseHandler
	users *partyapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *partyapp.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes mounts the user endpoints on the guarded API group
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/parties/users", h.List)
}

// List returns the farm's user parties
func (h *UserHandler) List(c *gin.Context) {
	farmID, ok := middleware.GetFarmID(c)
	if !ok {
		h.InternalError(c)
		return
	}

	var filter partyapp.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	users, total, err := h.users.List(c.Request.Context(), farmID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, users, dto.NewMeta(page, pageSize, total))
}
