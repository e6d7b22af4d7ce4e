package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors built with a custom message still match the sentinel values below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeMissingFields            = "MISSING_FIELDS"
	CodeNotFound                 = "NOT_FOUND"
	CodeForbidden                = "FORBIDDEN"
	CodeConflict                 = "CONFLICT"
	CodeInvalidInput             = "INVALID_INPUT"
	CodeUnauthorized             = "UNAUTHORIZED"
	CodeInvalidInvoiceType       = "INVALID_INVOICE_TYPE"
	CodeUpstreamSubmissionFailed = "UPSTREAM_SUBMISSION_FAILED"
	CodeUpstreamDeleteFailed     = "UPSTREAM_DELETE_FAILED"
	CodeInsufficientStock        = "INSUFFICIENT_STOCK"
	CodeRateLimited              = "RATE_LIMIT_EXCEEDED"
	CodeInternal                 = "INTERNAL_ERROR"
)

// Common domain errors
var (
	ErrMissingFields            = NewDomainError(CodeMissingFields, "Missing required fields")
	ErrNotFound                 = NewDomainError(CodeNotFound, "Resource not found")
	ErrForbidden                = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrConflict                 = NewDomainError(CodeConflict, "Resource already exists")
	ErrInvalidInput             = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized             = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrInvalidInvoiceType       = NewDomainError(CodeInvalidInvoiceType, "Unknown invoice type")
	ErrUpstreamSubmissionFailed = NewDomainError(CodeUpstreamSubmissionFailed, "Failed at backend")
	ErrUpstreamDeleteFailed     = NewDomainError(CodeUpstreamDeleteFailed, "Failed to delete invoice in backend service")
	ErrInsufficientStock        = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrInternal                 = NewDomainError(CodeInternal, "Internal server error")
)
