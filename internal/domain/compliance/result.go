// Package compliance models the outcome of calls to the e-invoicing authority.
package compliance

import (
	"encoding/json"
	"net/http"
)

// Result is the normalized outcome of one authority call.
// Transport failures are reported as StatusInternalServerError with a
// synthesized {"message": ...} body, so callers only ever inspect Status.
type Result struct {
	Status int
	Data   json.RawMessage
}

// Accepted reports whether the authority accepted the request (200 or 202)
func (r Result) Accepted() bool {
	return r.Status == http.StatusOK || r.Status == http.StatusAccepted
}

// Succeeded reports whether the status is any 2xx
func (r Result) Succeeded() bool {
	return r.Status >= 200 && r.Status < 300
}

// Message returns the "message" field of the body, or fallback when absent
func (r Result) Message(fallback string) string {
	var body struct {
		Message string `json:"message"`
	}
	if len(r.Data) == 0 || json.Unmarshal(r.Data, &body) != nil || body.Message == "" {
		return fallback
	}
	return body.Message
}

// Body returns the response body as a value that marshals back to the same JSON.
// Bodies that are not valid JSON are returned as a string.
func (r Result) Body() any {
	if len(r.Data) == 0 {
		return nil
	}
	if json.Valid(r.Data) {
		return r.Data
	}
	return string(r.Data)
}

// TransportFailure builds the result reported when the call never produced a response
func TransportFailure(err error) Result {
	data, _ := json.Marshal(map[string]string{"message": err.Error()})
	return Result{Status: http.StatusInternalServerError, Data: data}
}
