package invoicing

// InvoiceStatus represents the compliance status of an invoice
type InvoiceStatus string

const (
	StatusDraft            InvoiceStatus = "Draft"
	StatusValidatedPending InvoiceStatus = "Validated W"
	StatusValidated        InvoiceStatus = "Validated"
	StatusValidationFailed InvoiceStatus = "ValidationFailed"
	StatusPaid             InvoiceStatus = "Paid"
	StatusReportedPending  InvoiceStatus = "ZatcaReported W"
	StatusReported         InvoiceStatus = "ZatcaReported"
	StatusReportingFailed  InvoiceStatus = "ZatcaReportingFailed"
)

// transitions is the source of truth for legal status changes.
// Editing an invoice is a transition back to Draft.
var transitions = map[InvoiceStatus][]InvoiceStatus{
	StatusDraft: {
		StatusDraft, StatusValidatedPending, StatusValidated, StatusValidationFailed,
		StatusReportedPending, StatusReported, StatusReportingFailed,
	},
	StatusValidatedPending: {StatusDraft, StatusValidated, StatusValidationFailed},
	StatusValidated: {
		StatusDraft, StatusReportedPending, StatusReported, StatusReportingFailed, StatusPaid,
	},
	StatusValidationFailed: {StatusDraft},
	StatusReportingFailed:  {StatusDraft, StatusReportedPending, StatusReported},
	StatusReportedPending:  {StatusReported, StatusPaid},
	StatusReported:         {StatusPaid},
	StatusPaid:             {},
}

// deletable lists the statuses from which an invoice may be removed.
var deletable = map[InvoiceStatus]bool{
	StatusDraft:            true,
	StatusValidatedPending: true,
	StatusValidated:        true,
	StatusValidationFailed: true,
}

// AllStatuses returns every known status in lifecycle order
func AllStatuses() []InvoiceStatus {
	return []InvoiceStatus{
		StatusDraft, StatusValidatedPending, StatusValidated, StatusValidationFailed,
		StatusPaid, StatusReportedPending, StatusReported, StatusReportingFailed,
	}
}

// IsValid checks if the status is a known InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can move to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// CanEdit reports whether an invoice in this status may be updated and resubmitted
func (s InvoiceStatus) CanEdit() bool {
	return s.CanTransitionTo(StatusDraft)
}

// CanDelete reports whether an invoice in this status may be deleted
func (s InvoiceStatus) CanDelete() bool {
	return deletable[s]
}
