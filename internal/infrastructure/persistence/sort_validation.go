package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"invoice_id":   true,
	"name":         true,
	"status":       true,
	"invoice_date": true,
	"total":        true,
}

// InventoryItemSortFields contains allowed sort fields for inventory items
var InventoryItemSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"category":      true,
	"selling_price": true,
	"current_stock": true,
}

// orderClause builds a whitelisted ORDER BY expression. An empty field
// falls back to fallback as-is.
func orderClause(field, dir string, allowed map[string]bool, fallback string) string {
	column := ValidateSortField(field, allowed, "")
	if column == "" {
		return fallback
	}
	return column + " " + ValidateSortOrder(dir)
}
