package invoicing

import (
	"testing"
	"time"

	"github.com/einvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoicePatch_ApplyTo(t *testing.T) {
	inv := NewDraft(Header{Name: "Old", Currency: "SAR", Note: "keep"}, "1", nil)

	name := "New"
	typ := TypeSimplifiedInvoiceDebitNote
	tax := d("5")
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	p := InvoicePatch{Name: &name, Type: &typ, TaxPercentage: &tax, InvoiceDate: &date}
	p.ApplyTo(inv)

	assert.Equal(t, "New", inv.Name)
	assert.Equal(t, TypeSimplifiedInvoiceDebitNote, inv.Type)
	assert.True(t, inv.TaxPercentage.Equal(tax))
	assert.Equal(t, &date, inv.InvoiceDate)
	assert.Equal(t, "SAR", inv.Currency)
	assert.Equal(t, "keep", inv.Note)
}

func TestDiffLines(t *testing.T) {
	a := newLine(t, "10", "1", "0")
	b := newLine(t, "20", "2", "0")
	c := newLine(t, "30", "3", "0")

	requested := []ServiceInput{
		{ID: &b.ID, Name: "B", UnitPrice: d("20"), Quantity: d("5")},
		{Name: "New", UnitPrice: d("1"), Quantity: d("1")},
	}
	diff, err := DiffLines([]*Service{a, b, c}, requested)
	require.NoError(t, err)

	require.Len(t, diff.Inserts, 1)
	assert.Equal(t, "New", diff.Inserts[0].Name)

	require.Len(t, diff.Updates, 1)
	assert.Equal(t, b, diff.Updates[0].Line)
	assert.True(t, diff.Updates[0].PreviousQuantity.Equal(d("2")))

	require.Len(t, diff.Removals, 2)
	assert.Equal(t, a.ID, diff.Removals[0].ID)
	assert.Equal(t, c.ID, diff.Removals[1].ID)
}

func TestDiffLines_RejectsForeignAndDuplicateIDs(t *testing.T) {
	a := newLine(t, "10", "1", "0")
	foreign := uuid.New()

	_, err := DiffLines([]*Service{a}, []ServiceInput{{ID: &foreign, Name: "x"}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = DiffLines([]*Service{a}, []ServiceInput{{ID: &a.ID, Name: "x"}, {ID: &a.ID, Name: "y"}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
