package compliance

import "github.com/einvoice/backend/internal/domain/shared"

// UpstreamError is a refusal by the compliance authority. It matches its
// DomainError code through errors.Is and carries the authority's body.
type UpstreamError struct {
	*shared.DomainError
	Status int
	Data   any
}

// Unwrap exposes the domain error to errors.Is and errors.As
func (e *UpstreamError) Unwrap() error {
	return e.DomainError
}

// NewUpstreamError builds the error reported for a refused authority call.
// The message is the authority's "message" field, or fallback.
func NewUpstreamError(code, fallback string, res Result) *UpstreamError {
	return &UpstreamError{
		DomainError: shared.NewDomainError(code, res.Message(fallback)),
		Status:      res.Status,
		Data:        res.Body(),
	}
}
