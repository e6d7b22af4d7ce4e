// Package models contains GORM persistence models that map to database tables.
// They are kept apart from the domain entities so the domain layer stays free
// of ORM concerns; each model converts with ToDomain / FromDomain.
//
//   - base.go: BaseModel shared by uuid-keyed tables
//   - invoicing.go: invoices, services, invoice_counters
//   - inventory.go: inventory_items
//   - partner.go: accounts, clients, account_invoices, client_invoices
//   - identity.go: users
//   - organization.go: organization_profiles, onboardings
package models

// All returns every model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&UserModel{},
		&AccountModel{},
		&ClientModel{},
		&OrganizationProfileModel{},
		&OnboardingModel{},
		&InventoryItemModel{},
		&InvoiceModel{},
		&ServiceModel{},
		&InvoiceCounterModel{},
		&AccountInvoiceModel{},
		&ClientInvoiceModel{},
	}
}
