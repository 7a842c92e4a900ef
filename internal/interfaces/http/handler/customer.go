package handler

import (
	partyapp "github.com/agribase/backend/internal/application/party"
	"github.com/agribase/backend/internal/interfaces/http/dto"
	"github.com/agribase/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerHandler exposes the tenant-scoped customer endpoints
type CustomerHandler struct {
	BaseHandler
	customers *partyapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *partyapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// RegisterRoutes mounts the customer endpoints on the guarded API group
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/parties/customers")
	customers.GET("", h.List)
	customers.POST("", h.Create)
	customers.GET("/:id", h.Get)
	customers.PUT("/:id", h.Update)
	customers.DELETE("/:id", h.Delete)
}

// List returns the farm's customers with contact shortcuts and order
// aggregates
func (h *CustomerHandler) List(c *gin.Context) {
	farmID, ok := middleware.GetFarmID(c)
	if !ok {
		h.InternalError(c)
		return
	}

	var filter partyapp.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	customers, total, err := h.customers.List(c.Request.Context(), farmID, filter)
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
	h.SuccessWithMeta(c, customers, dto.NewMeta(page, pageSize, total))
}

// Create creates a customer party with its role and contacts
func (h *CustomerHandler) Create(c *gin.Context) {
	farmID, ok := middleware.GetFarmID(c)
	if !ok {
		h.InternalError(c)
		return
	}

	var req partyapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), farmID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Get returns one customer by party id
func (h *CustomerHandler) Get(c *gin.Context) {
	farmID, ok := middleware.GetFarmID(c)
	if !ok {
		h.InternalError(c)
		return
	}

	partyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid customer id")
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), farmID, partyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Update partially updates a customer's party fields, contact set and role
// metadata
func (h *CustomerHandler) Update(c *gin.Context) {
	farmID, ok := middleware.GetFarmID(c)
	if !ok {
		h.InternalError(c)
		return
	}

	partyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid customer id")
		return
	}

	var req partyapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, err.Error())
		return
	}

	customer, err := h.customers.Update(c.Request.Context(), farmID, partyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer. Customers with orders cannot be deleted.
func (h *CustomerHandler) Delete(c *gin.Context) {
	farmID, ok := middleware.GetFarmID(c)
	if !ok {
		h.InternalError(c)
		return
	}

	partyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid customer id")
		return
	}

	if err := h.customers.Delete(c.Request.Context(), farmID, partyID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
