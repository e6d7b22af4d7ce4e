package invoicing

// Document is the canonical tax-invoice payload submitted to the compliance authority
type Document struct {
	ID                      string           `json:"id"`
	UUID                    string           `json:"uuid"`
	IssueDate               string           `json:"issueDate"`
	IssueTime               string           `json:"issueTime"`
	InvoiceTypeCode         TypeCode         `json:"invoiceTypeCode"`
	Note                    string           `json:"note,omitempty"`
	DocumentCurrencyCode    string           `json:"documentCurrencyCode"`
	TaxCurrencyCode         string           `json:"taxCurrencyCode"`
	InvoiceCounterValue     int64            `json:"invoiceCounterValue"`
	ActualDeliveryDate      string           `json:"actualDeliveryDate,omitempty"`
	PaymentMeansCode        string           `json:"paymentMeansCode,omitempty"`
	AccountingSupplierParty PartyBlock       `json:"accountingSupplierParty"`
	AccountingCustomerParty PartyBlock       `json:"accountingCustomerParty"`
	AllowanceCharge         *AllowanceCharge `json:"allowanceCharge,omitempty"`
	TaxTotal                DocumentTaxTotal `json:"taxTotal"`
	LegalMonetaryTotal      MonetaryTotal    `json:"legalMonetaryTotal"`
	InvoiceLines            []InvoiceLine    `json:"invoiceLines"`
}

// Amount is a monetary value in a currency
type Amount struct {
	Value      float64 `json:"value"`
	CurrencyID string  `json:"currencyId"`
}

// Quantity is an invoiced quantity with its unit of measure
type Quantity struct {
	Value    float64 `json:"value"`
	UnitCode string  `json:"unitCode"`
}

// TaxScheme identifies the tax regime, usually VAT
type TaxScheme struct {
	ID string `json:"id"`
}

// TaxCategory is a tax category code with its rate
type TaxCategory struct {
	ID        string    `json:"id"`
	Percent   string    `json:"percent"`
	TaxScheme TaxScheme `json:"taxScheme"`
}

// Country holds the ISO country code of an address
type Country struct {
	IdentificationCode string `json:"identificationCode"`
}

// PostalAddress is a party address
type PostalAddress struct {
	StreetName          string  `json:"streetName"`
	BuildingNumber      string  `json:"buildingNumber"`
	CitySubdivisionName string  `json:"citySubdivisionName"`
	CityName            string  `json:"cityName"`
	PostalZone          string  `json:"postalZone"`
	Country             Country `json:"country"`
}

// PartyIdentification is the seller's registration identifier
type PartyIdentification struct {
	ID       string `json:"id"`
	SchemeID string `json:"schemeID"`
}

// PartyTaxScheme is a party's VAT registration
type PartyTaxScheme struct {
	CompanyID string    `json:"companyID"`
	TaxScheme TaxScheme `json:"taxScheme"`
}

// PartyLegalEntity carries the registered legal name
type PartyLegalEntity struct {
	RegistrationName string `json:"registrationName"`
}

// Party is a buyer or seller. Only the seller carries PartyIdentification.
type Party struct {
	PartyIdentification *PartyIdentification `json:"partyIdentification,omitempty"`
	PostalAddress       PostalAddress        `json:"postalAddress"`
	PartyTaxScheme      PartyTaxScheme       `json:"partyTaxScheme"`
	PartyLegalEntity    PartyLegalEntity     `json:"partyLegalEntity"`
}

// PartyBlock wraps a party the way the authority schema nests it
type PartyBlock struct {
	Party Party `json:"party"`
}

// AllowanceCharge is a document-level discount
type AllowanceCharge struct {
	ChargeIndicator       bool        `json:"chargeIndicator"`
	AllowanceChargeReason string      `json:"allowanceChargeReason"`
	Amount                Amount      `json:"amount"`
	TaxCategory           TaxCategory `json:"taxCategory"`
}

// TaxSubtotal is the tax breakdown for one category
type TaxSubtotal struct {
	TaxableAmount Amount      `json:"taxableAmount"`
	TaxAmount     Amount      `json:"taxAmount"`
	TaxCategory   TaxCategory `json:"taxCategory"`
}

// DocumentTaxTotal is the document-level tax total
type DocumentTaxTotal struct {
	TaxAmount   Amount      `json:"taxAmount"`
	TaxSubtotal TaxSubtotal `json:"taxSubtotal"`
}

// MonetaryTotal holds the document totals
type MonetaryTotal struct {
	LineExtensionAmount  Amount `json:"lineExtensionAmount"`
	TaxExclusiveAmount   Amount `json:"taxExclusiveAmount"`
	TaxInclusiveAmount   Amount `json:"taxInclusiveAmount"`
	AllowanceTotalAmount Amount `json:"allowanceTotalAmount"`
	PrepaidAmount        Amount `json:"prepaidAmount"`
	PayableAmount        Amount `json:"payableAmount"`
}

// LineTaxTotal is the tax of one invoice line
type LineTaxTotal struct {
	TaxAmount      Amount `json:"taxAmount"`
	RoundingAmount Amount `json:"roundingAmount"`
}

// LineItem describes what a line sells
type LineItem struct {
	Name                  string      `json:"name"`
	ClassifiedTaxCategory TaxCategory `json:"classifiedTaxCategory"`
}

// Price is the unit price of a line
type Price struct {
	PriceAmount Amount `json:"priceAmount"`
}

// InvoiceLine is one line of the document
type InvoiceLine struct {
	ID                  string       `json:"id"`
	InvoicedQuantity    Quantity     `json:"invoicedQuantity"`
	LineExtensionAmount Amount       `json:"lineExtensionAmount"`
	TaxTotal            LineTaxTotal `json:"taxTotal"`
	Item                LineItem     `json:"item"`
	Price               Price        `json:"price"`
}
