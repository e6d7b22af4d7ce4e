package invoicing

import (
	"context"
	"errors"
	"fmt"

	"github.com/einvoice/backend/internal/domain/inventory"
	"github.com/einvoice/backend/internal/domain/invoicing"
	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/einvoice/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Stock movement labels
const (
	MovementReserve = "reserve"
	MovementRelease = "release"
)

// StockChange is a signed quantity to apply to the item with ItemCode.
// A positive Quantity is reserved (taken from stock), a negative one released.
type StockChange struct {
	ItemCode string
	Quantity decimal.Decimal
}

// StockCoordinator applies stock deltas for invoice lines. It must be given
// the item repository of the enclosing transaction so that a failure anywhere
// in the operation also undoes the stock effects.
type StockCoordinator struct {
	logger  *zap.Logger
	metrics *telemetry.InvoiceMetrics
}

// NewStockCoordinator creates a StockCoordinator
func NewStockCoordinator(logger *zap.Logger, metrics *telemetry.InvoiceMetrics) *StockCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockCoordinator{logger: logger, metrics: metrics}
}

// Reserve takes the quantity of every inventory-backed line from stock
func (c *StockCoordinator) Reserve(ctx context.Context, items inventory.ItemRepository, lines []*invoicing.Service) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "reserve")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrLineCount, len(lines))

	for _, l := range lines {
		if !l.HasInventoryItem() {
			continue
		}
		if err := c.reserve(ctx, items, l.ItemCode, l.Quantity); err != nil {
			telemetry.RecordError(span, err)
			return err
		}
	}
	return nil
}

// Release returns the quantity of every inventory-backed line to stock
func (c *StockCoordinator) Release(ctx context.Context, items inventory.ItemRepository, lines []*invoicing.Service) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "release")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrLineCount, len(lines))

	for _, l := range lines {
		if !l.HasInventoryItem() {
			continue
		}
		if err := c.release(ctx, items, l.ItemCode, l.Quantity); err != nil {
			telemetry.RecordError(span, err)
			return err
		}
	}
	return nil
}

// Apply runs releases before reservations so that stock freed by one line can
// be taken by another line of the same invoice.
func (c *StockCoordinator) Apply(ctx context.Context, items inventory.ItemRepository, changes []StockChange) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "adjust")
	defer span.End()

	for _, ch := range changes {
		if ch.ItemCode == "" || !ch.Quantity.IsNegative() {
			continue
		}
		if err := c.release(ctx, items, ch.ItemCode, ch.Quantity.Neg()); err != nil {
			telemetry.RecordError(span, err)
			return err
		}
	}
	for _, ch := range changes {
		if ch.ItemCode == "" || !ch.Quantity.IsPositive() {
			continue
		}
		if err := c.reserve(ctx, items, ch.ItemCode, ch.Quantity); err != nil {
			telemetry.RecordError(span, err)
			return err
		}
	}
	return nil
}

func (c *StockCoordinator) reserve(ctx context.Context, items inventory.ItemRepository, code string, qty decimal.Decimal) error {
	item, err := c.load(ctx, items, code)
	if err != nil || item.IsService {
		return err
	}
	if !item.HasStock(qty) {
		return item.InsufficientStockError(qty)
	}

	ok, err := items.DecrementStock(ctx, item.ID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock of %s: %w", code, err)
	}
	if !ok {
		// stock was taken between the read and the update
		fresh, ferr := items.FindByID(ctx, item.ID)
		if ferr != nil {
			return item.InsufficientStockError(qty)
		}
		return fresh.InsufficientStockError(qty)
	}

	c.metrics.RecordStockMovement(ctx, MovementReserve)
	telemetry.AddEvent(telemetry.SpanFromContext(ctx), "stock_reserved",
		telemetry.SpanAttrItemCode, code,
		telemetry.SpanAttrQuantity, qty.String(),
	)
	return nil
}

func (c *StockCoordinator) release(ctx context.Context, items inventory.ItemRepository, code string, qty decimal.Decimal) error {
	item, err := c.load(ctx, items, code)
	if err != nil || item.IsService {
		return err
	}
	if err := items.IncrementStock(ctx, item.ID, qty); err != nil {
		return fmt.Errorf("increment stock of %s: %w", code, err)
	}

	c.metrics.RecordStockMovement(ctx, MovementRelease)
	telemetry.AddEvent(telemetry.SpanFromContext(ctx), "stock_released",
		telemetry.SpanAttrItemCode, code,
		telemetry.SpanAttrQuantity, qty.String(),
	)
	return nil
}

func (c *StockCoordinator) load(ctx context.Context, items inventory.ItemRepository, code string) (*inventory.Item, error) {
	item, err := items.FindByCode(ctx, code)
	if err != nil {
		// a dangling item code is a data fault, not a missing resource
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeInternal,
				fmt.Sprintf("Inventory item not found for item_code: %s", code))
		}
		return nil, err
	}
	return item, nil
}

// LineStockChanges computes the stock effect of replacing an invoice's lines.
// Removed lines are released, inserted lines reserved, and retained lines
// reserve or release the difference; a retained line whose item code changed
// releases the old item and reserves the new one.
func LineStockChanges(diff invoicing.LineDiff, inserted []*invoicing.Service) []StockChange {
	var changes []StockChange
	for _, s := range diff.Removals {
		changes = append(changes, StockChange{ItemCode: s.ItemCode, Quantity: s.Quantity.Neg()})
	}
	for _, u := range diff.Updates {
		if u.PreviousItemCode == u.Line.ItemCode {
			if delta := u.Line.Quantity.Sub(u.PreviousQuantity); !delta.IsZero() {
				changes = append(changes, StockChange{ItemCode: u.Line.ItemCode, Quantity: delta})
			}
			continue
		}
		changes = append(changes,
			StockChange{ItemCode: u.PreviousItemCode, Quantity: u.PreviousQuantity.Neg()},
			StockChange{ItemCode: u.Line.ItemCode, Quantity: u.Line.Quantity},
		)
	}
	for _, s := range inserted {
		changes = append(changes, StockChange{ItemCode: s.ItemCode, Quantity: s.Quantity})
	}
	return changes
}
