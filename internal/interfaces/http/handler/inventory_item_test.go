package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	inventoryapp "github.com/einvoice/backend/internal/application/inventory"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/interfaces/http/dto"
	"github.com/einvoice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupItemRouter(svc ItemService) *gin.Engine {
	h := NewInventoryItemHandler(svc)
	r := gin.New()
	r.POST("/inventory-items", h.Create)
	r.GET("/inventory-items", h.List)
	r.GET("/inventory-items/:id", h.Get)
	r.PUT("/inventory-items/:id", h.Update)
	r.DELETE("/inventory-items/:id", h.Delete)
	return r
}

func TestInventoryItemHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(mockItemService)
		id := uuid.New()
		svc.On("Create", mock.Anything, mock.MatchedBy(func(req inventoryapp.CreateItemRequest) bool {
			return req.ItemName == "Steel Widget" && req.Unit == "PCE" && req.CurrentStock.Equal(decimal.NewFromInt(12))
		})).Return(&inventoryapp.ItemResponse{ID: id, ItemCode: "SW-0001", ItemName: "Steel Widget"}, nil)

		w := httptest.NewRecorder()
		setupItemRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/inventory-items", jsonBody(t, map[string]any{
			"item_name":     "Steel Widget",
			"unit":          "PCE",
			"current_stock": "12",
		})))

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "SW-0001", resp.Data.(map[string]any)["item_code"])
		svc.AssertExpectations(t)
	})

	t.Run("required fields", func(t *testing.T) {
		svc := new(mockItemService)
		w := httptest.NewRecorder()
		setupItemRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/inventory-items", jsonBody(t, map[string]any{"item_name": "Bolt"})))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "unit", resp.Error.Details[0].Field)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate code", func(t *testing.T) {
		svc := new(mockItemService)
		svc.On("Create", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError(shared.CodeConflict, "InventoryItem already exists"))

		w := httptest.NewRecorder()
		setupItemRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/inventory-items", jsonBody(t, map[string]any{
			"item_name": "Bolt", "unit": "PCE", "item_code": "B-1",
		})))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestInventoryItemHandler_List(t *testing.T) {
	svc := new(mockItemService)
	isService := false
	svc.On("List", mock.Anything, inventoryapp.ListItemsFilter{Search: "wid", IsService: &isService, Page: 1, PageSize: 5}).
		Return(&inventoryapp.ItemListResult{
			Items:    []inventoryapp.ItemResponse{{ItemName: "Widget"}},
			Total:    1,
			Page:     1,
			PageSize: 5,
		}, nil)

	w := httptest.NewRecorder()
	setupItemRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/inventory-items?search=wid&is_service=false&page=1&page_size=5", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get(middleware.TotalCountHeader))
	svc.AssertExpectations(t)
}

func TestInventoryItemHandler_ByID(t *testing.T) {
	svc := new(mockItemService)
	id := uuid.New()
	missing := uuid.New()
	svc.On("GetByID", mock.Anything, id).Return(&inventoryapp.ItemResponse{ID: id}, nil)
	svc.On("GetByID", mock.Anything, missing).Return(nil, shared.NewDomainError(shared.CodeNotFound, "InventoryItem not found"))
	svc.On("Update", mock.Anything, id, mock.MatchedBy(func(req inventoryapp.UpdateItemRequest) bool {
		return req.ItemName != nil && *req.ItemName == "Renamed" && req.Unit == nil
	})).Return(&inventoryapp.ItemResponse{ID: id, ItemName: "Renamed"}, nil)
	svc.On("Delete", mock.Anything, id).Return(nil)
	r := setupItemRouter(svc)

	tests := []struct {
		name   string
		method string
		path   string
		body   map[string]any
		status int
	}{
		{"get", http.MethodGet, "/inventory-items/" + id.String(), nil, http.StatusOK},
		{"get missing", http.MethodGet, "/inventory-items/" + missing.String(), nil, http.StatusNotFound},
		{"get bad id", http.MethodGet, "/inventory-items/abc", nil, http.StatusBadRequest},
		{"update", http.MethodPut, "/inventory-items/" + id.String(), map[string]any{"item_name": "Renamed"}, http.StatusOK},
		{"update empty name", http.MethodPut, "/inventory-items/" + id.String(), map[string]any{"item_name": ""}, http.StatusBadRequest},
		{"delete", http.MethodDelete, "/inventory-items/" + id.String(), nil, http.StatusOK},
		{"delete bad id", http.MethodDelete, "/inventory-items/abc", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.body != nil {
				req = httptest.NewRequest(tt.method, tt.path, jsonBody(t, tt.body))
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
