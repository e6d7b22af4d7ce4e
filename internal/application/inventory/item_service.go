package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/einvoice/backend/internal/domain/inventory"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/infrastructure/logger"
	"github.com/einvoice/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxCodeAttempts bounds the search for a free generated item code
const maxCodeAttempts = 20

// ItemService handles inventory item business operations
type ItemService struct {
	repo   inventory.ItemRepository
	logger *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(repo inventory.ItemRepository, logger *zap.Logger) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemService{repo: repo, logger: logger}
}

// Create adds an item to the catalogue. Without an explicit code, one is
// generated from the initials of the item name and the count of items
// already using that prefix.
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory_item", "create")
	defer span.End()

	creator := uuid.Nil
	if req.UserID != nil {
		creator = *req.UserID
	}
	item, err := inventory.NewItem(req.ItemCode, req.ItemName, req.Unit, req.IsService, req.CurrentStock, creator)
	if err != nil {
		return nil, err
	}
	item.Description = req.Description
	item.Category = req.Category
	item.SKU = req.SKU
	item.Barcode = req.Barcode
	item.CostPrice = req.CostPrice
	item.SellingPrice = req.SellingPrice
	item.TaxRate = req.TaxRate
	item.DiscountRate = req.DiscountRate

	if item.Code == "" {
		if item.Code, err = s.generateCode(ctx, item.Name); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	} else if err := s.ensureCodeFree(ctx, item.Code); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, item); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, codeConflict(item.Code)
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("save item: %w", err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrItemCode, item.Code)
	logger.Enrich(ctx, s.logger).Info("Inventory item created",
		zap.String("item_code", item.Code),
		zap.Bool("is_service", item.IsService),
	)

	resp := ToItemResponse(item)
	return &resp, nil
}

// GetByID retrieves an item by ID
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// List returns a page of items ordered by code
func (s *ItemService) List(ctx context.Context, filter ListItemsFilter) (*ItemListResult, error) {
	items, total, err := s.repo.FindAll(ctx, inventory.ItemFilter{
		Keyword:   filter.Search,
		Category:  filter.Category,
		IsService: filter.IsService,
		SortBy:    filter.OrderBy,
		SortOrder: filter.OrderDir,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	})
	if err != nil {
		return nil, err
	}
	result := &ItemListResult{
		Items:    make([]ItemResponse, len(items)),
		Total:    total,
		Page:     max(filter.Page, 1),
		PageSize: filter.PageSize,
	}
	for i, item := range items {
		result.Items[i] = ToItemResponse(item)
	}
	return result, nil
}

// Update applies the declared fields to an item. The item code never changes.
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Apply(req.patch()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// Delete removes an item. Invoice lines keep their item code.
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Enrich(ctx, s.logger).Info("Inventory item deleted", zap.String("item_id", id.String()))
	return nil
}

func (s *ItemService) find(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Inventory item not found")
		}
		return nil, err
	}
	return item, nil
}

func (s *ItemService) generateCode(ctx context.Context, name string) (string, error) {
	prefix := inventory.CodePrefix(name)
	count, err := s.repo.CountByCodePrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("count item codes: %w", err)
	}
	for seq := count + 1; seq <= count+maxCodeAttempts; seq++ {
		code := inventory.FormatCode(prefix, seq)
		_, err := s.repo.FindByCode(ctx, code)
		if errors.Is(err, shared.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", codeConflict(prefix)
}

func (s *ItemService) ensureCodeFree(ctx context.Context, code string) error {
	_, err := s.repo.FindByCode(ctx, code)
	switch {
	case err == nil:
		return codeConflict(code)
	case errors.Is(err, shared.ErrNotFound):
		return nil
	default:
		return err
	}
}

func codeConflict(code string) error {
	return shared.NewDomainError(shared.CodeConflict, fmt.Sprintf("Item code already exists: %s", code))
}
