package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE invoices;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "updated_at"},
		{"valid field returns field", "total", "total"},
		{"invalid field returns default", "qr_code", "updated_at"},
		{"sql injection attempt returns default", "id; DROP TABLE invoices;--", "updated_at"},
		{"case sensitive", "TOTAL", "updated_at"},
		{"whitespace around valid field returns field", "  name  ", "name"},
		{"subquery returns default", "id, (SELECT email FROM users)", "updated_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, InvoiceSortFields, "updated_at"))
		})
	}
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "code ASC", orderClause("", "", InventoryItemSortFields, "code ASC"))
	assert.Equal(t, "name ASC", orderClause("name", "asc", InventoryItemSortFields, "code ASC"))
	assert.Equal(t, "current_stock DESC", orderClause("current_stock", "", InventoryItemSortFields, "code ASC"))
	assert.Equal(t, "code ASC", orderClause("cost_price", "asc", InventoryItemSortFields, "code ASC"))
}

func TestSortFieldsWhitelists(t *testing.T) {
	for name, whitelist := range map[string]map[string]bool{
		"InvoiceSortFields":       InvoiceSortFields,
		"InventoryItemSortFields": InventoryItemSortFields,
	} {
		t.Run(name, func(t *testing.T) {
			for _, field := range []string{"id", "created_at", "updated_at"} {
				assert.True(t, whitelist[field], "%s should contain %q", name, field)
			}
		})
	}
}
