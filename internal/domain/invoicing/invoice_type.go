package invoicing

import (
	"fmt"

	"github.com/einvoice/backend/internal/domain/shared"
)

// InvoiceType identifies the kind of tax document being issued
type InvoiceType string

const (
	TypeStandardInvoice             InvoiceType = "StandardInvoice"
	TypeStandardInvoiceCreditNote   InvoiceType = "StandardInvoiceCreditNote"
	TypeStandardInvoiceDebitNote    InvoiceType = "StandardInvoiceDebitNote"
	TypeSimplifiedInvoice           InvoiceType = "SimplifiedInvoice"
	TypeSimplifiedInvoiceCreditNote InvoiceType = "SimplifiedInvoiceCreditNote"
	TypeSimplifiedInvoiceDebitNote  InvoiceType = "SimplifiedInvoiceDebitNote"
)

// TypeCode is the authority's (document type, transaction subtype) pair
type TypeCode struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

const (
	docTypeInvoice    = "388"
	docTypeCreditNote = "381"
	docTypeDebitNote  = "383"

	subtypeStandard   = "0100000"
	subtypeSimplified = "0200000"
)

var typeCodes = map[InvoiceType]TypeCode{
	TypeStandardInvoice:             {Value: docTypeInvoice, Name: subtypeStandard},
	TypeStandardInvoiceCreditNote:   {Value: docTypeCreditNote, Name: subtypeStandard},
	TypeStandardInvoiceDebitNote:    {Value: docTypeDebitNote, Name: subtypeStandard},
	TypeSimplifiedInvoice:           {Value: docTypeInvoice, Name: subtypeSimplified},
	TypeSimplifiedInvoiceCreditNote: {Value: docTypeCreditNote, Name: subtypeSimplified},
	TypeSimplifiedInvoiceDebitNote:  {Value: docTypeDebitNote, Name: subtypeSimplified},
}

// Code returns the type-code pair for the invoice type
func (t InvoiceType) Code() (TypeCode, error) {
	code, ok := typeCodes[t]
	if !ok {
		return TypeCode{}, shared.NewDomainError(shared.CodeInvalidInvoiceType, fmt.Sprintf("Unknown invoice type: %q", string(t)))
	}
	return code, nil
}

// IsValid checks if the invoice type is one of the six known variants
func (t InvoiceType) IsValid() bool {
	_, ok := typeCodes[t]
	return ok
}

// String returns the string representation of InvoiceType
func (t InvoiceType) String() string {
	return string(t)
}
