// Package apierr defines the error family understood by the apify pipeline.
// Every value carries an HTTP status code, a short name, and a human readable
// description; the pipeline translates them into uniform error envelopes.
// Errors that do not wrap an *Error are never translated and fall through to
// the fallback error handler instead.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an API failure that should be rendered to the client. The zero
// value is not useful; construct instances with New or Named.
type Error struct {
	// Code is the HTTP status code of the error response.
	Code int
	// Name identifies the error kind in the wire envelope.
	Name string
	// Description is the human readable message in the wire envelope.
	Description string
}

// New returns an Error with the given status code and description. The name
// is derived from the standard status text.
func New(code int, description string) *Error {
	return Named(code, http.StatusText(code), description)
}

// Named returns an Error with an explicit name, for callers that want a kind
// identifier different from the standard status text.
func Named(code int, name, description string) *Error {
	return &Error{Code: code, Name: name, Description: description}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Code, e.Name, e.Description)
}

// WithDescription derives a copy of the error carrying a different
// description. The original value is left untouched, so the predefined
// errors stay safe to share.
func (e *Error) WithDescription(description string) *Error {
	derived := *e
	derived.Description = description
	return &derived
}

// From reports whether err is, or wraps, an API error.
func From(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

var (
	// ErrNotFound signals that the requested resource does not exist.
	ErrNotFound = New(http.StatusNotFound,
		"The requested resource was not found on the server. If you entered "+
			"the URL manually please check your spelling and try again.")

	// ErrUnauthorized signals that the endpoint requires authentication.
	ErrUnauthorized = New(http.StatusUnauthorized,
		"The server could not verify that you are authorized to access the "+
			"requested URL.")

	// ErrNotAcceptable signals that no registered serializer can produce a
	// response in a format the client accepts.
	ErrNotAcceptable = New(http.StatusNotAcceptable,
		"The application API cannot generate response in format accepted by "+
			"client according to the accept headers send in the request.")

	// ErrNotImplemented signals that the API does not support the requested
	// action.
	ErrNotImplemented = New(http.StatusNotImplemented,
		"The API does not support the action requested by the client. For a "+
			"list of the supported API methods consult the documentation.")
)
