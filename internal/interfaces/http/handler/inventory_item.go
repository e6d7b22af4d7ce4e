package handler

import (
	"context"
	"strconv"

	inventoryapp "github.com/einvoice/backend/internal/application/inventory"
	"github.com/einvoice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ItemService manages inventory items
type ItemService interface {
	Create(ctx context.Context, req inventoryapp.CreateItemRequest) (*inventoryapp.ItemResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*inventoryapp.ItemResponse, error)
	List(ctx context.Context, filter inventoryapp.ListItemsFilter) (*inventoryapp.ItemListResult, error)
	Update(ctx context.Context, id uuid.UUID, req inventoryapp.UpdateItemRequest) (*inventoryapp.ItemResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InventoryItemHandler handles inventory item endpoints
type InventoryItemHandler struct {
	BaseHandler
	items ItemService
}

// NewInventoryItemHandler creates a new InventoryItemHandler
func NewInventoryItemHandler(items ItemService) *InventoryItemHandler {
	return &InventoryItemHandler{items: items}
}

// Create godoc
//
//	@Summary	Create an inventory item
//	@Tags		inventory-items
//	@Accept		json
//	@Produce	json
//	@Param		request	body		inventory.CreateItemRequest	true	"Item"
//	@Success	201		{object}	dto.Response
//	@Failure	409		{object}	dto.Response
//	@Router		/inventory-items [post]
func (h *InventoryItemHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.UserID == nil {
		req.UserID = actingUserID(c)
	}

	item, err := h.items.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Inventory item created successfully", item)
}

// List returns a page of inventory items
func (h *InventoryItemHandler) List(c *gin.Context) {
	var filter inventoryapp.ListItemsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.items.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header(middleware.TotalCountHeader, strconv.FormatInt(result.Total, 10))
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get returns one inventory item
func (h *InventoryItemHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.InvalidID(c, "inventory item")
		return
	}

	item, err := h.items.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update applies a partial change to an inventory item
func (h *InventoryItemHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.InvalidID(c, "inventory item")
		return
	}
	var req inventoryapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.items.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Inventory item updated successfully", item)
}

// Delete removes an inventory item
func (h *InventoryItemHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.InvalidID(c, "inventory item")
		return
	}

	if err := h.items.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "Inventory item deleted successfully", nil)
}
