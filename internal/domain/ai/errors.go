package ai

import (
	"errors"
	"fmt"
)

// Kind labels an error class on the wire.
type Kind string

const (
	KindTransport     Kind = "transport_error"
	KindUpstream      Kind = "upstream_error"
	KindDecode        Kind = "decode_error"
	KindResponseShape Kind = "response_shape_error"
	KindValidation    Kind = "validation_error"
	KindInternal      Kind = "internal_error"
)

// TransportError means the provider could not be reached at all
// (DNS, connection refused, timeout, cancelled context).
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
func (e *TransportError) Kind() Kind    { return KindTransport }

// UpstreamError means the provider answered with a non-2xx status.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: upstream returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: upstream returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *UpstreamError) Kind() Kind { return KindUpstream }

// DecodeError means the provider body (or our own payload) was not valid JSON.
type DecodeError struct {
	Provider string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid json: %v", e.Provider, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
func (e *DecodeError) Kind() Kind    { return KindDecode }

// ResponseShapeError means the provider succeeded but the JSON did not
// contain the expected field.
type ResponseShapeError struct {
	Provider string
	Path     string
	Err      error
}

func (e *ResponseShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: unexpected response shape at %s: %v", e.Provider, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: unexpected response shape: missing %s", e.Provider, e.Path)
}

func (e *ResponseShapeError) Unwrap() error { return e.Err }
func (e *ResponseShapeError) Kind() Kind    { return KindResponseShape }

// ValidationError is a malformed inbound request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Kind() Kind { return KindValidation }

// Invalid is shorthand for a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the taxonomy class of err, or KindInternal for anything
// outside the taxonomy.
func KindOf(err error) Kind {
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}
