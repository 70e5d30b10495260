package message

import (
	"errors"
	"net/http"
)

// HTTPError is an error that maps to an HTTP status code.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// Unwrap returns the cause, if any.
func (e HTTPError) Unwrap() error {
	return e.Cause
}

// Is matches HTTPError values by status, so a copy carrying a cause
// still matches the predefined error.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Status == e.Status && t.Code == e.Code
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithError returns a copy of the error carrying err as its cause.
func (e HTTPError) WithError(err error) HTTPError {
	e.Cause = err
	return e
}

// statusCoder is implemented by errors that map to a status code.
type statusCoder interface {
	StatusCode() int
}

// StatusOf returns the status code of the first error in err's chain
// that carries one.
func StatusOf(err error) (int, bool) {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode(), true
	}
	return 0, false
}

func newHTTPError(status int, code string) HTTPError {
	msg := http.StatusText(status)
	if msg == "" {
		msg = extraStatusText[status]
	}
	return HTTPError{Status: status, Code: code, Message: msg}
}

// Client errors.
var (
	ErrBadRequest                   = newHTTPError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized                 = newHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrPaymentRequired              = newHTTPError(http.StatusPaymentRequired, "payment_required")
	ErrForbidden                    = newHTTPError(http.StatusForbidden, "forbidden")
	ErrNotFound                     = newHTTPError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed             = newHTTPError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrNotAcceptable                = newHTTPError(http.StatusNotAcceptable, "not_acceptable")
	ErrProxyAuthenticationRequired  = newHTTPError(http.StatusProxyAuthRequired, "proxy_authentication_required")
	ErrRequestTimeout               = newHTTPError(http.StatusRequestTimeout, "request_timeout")
	ErrConflict                     = newHTTPError(http.StatusConflict, "conflict")
	ErrGone                         = newHTTPError(http.StatusGone, "gone")
	ErrLengthRequired               = newHTTPError(http.StatusLengthRequired, "length_required")
	ErrPreconditionFailed           = newHTTPError(http.StatusPreconditionFailed, "precondition_failed")
	ErrRequestEntityTooLarge        = newHTTPError(http.StatusRequestEntityTooLarge, "request_entity_too_large")
	ErrRequestURITooLong            = newHTTPError(http.StatusRequestURITooLong, "request_uri_too_long")
	ErrUnsupportedMediaType         = newHTTPError(http.StatusUnsupportedMediaType, "unsupported_media_type")
	ErrRequestedRangeNotSatisfiable = newHTTPError(http.StatusRequestedRangeNotSatisfiable, "requested_range_not_satisfiable")
	ErrExpectationFailed            = newHTTPError(http.StatusExpectationFailed, "expectation_failed")
	ErrImATeapot                    = newHTTPError(http.StatusTeapot, "im_a_teapot")
	ErrAuthenticationTimeout        = newHTTPError(419, "authentication_timeout")
	ErrEnhanceYourCalm              = newHTTPError(420, "enhance_your_calm")
	ErrUnprocessableEntity          = newHTTPError(http.StatusUnprocessableEntity, "unprocessable_entity")
	ErrLocked                       = newHTTPError(http.StatusLocked, "locked")
	ErrFailedDependency             = newHTTPError(http.StatusFailedDependency, "failed_dependency")
	ErrPreconditionRequired         = newHTTPError(http.StatusPreconditionRequired, "precondition_required")
	ErrTooManyRequests              = newHTTPError(http.StatusTooManyRequests, "too_many_requests")
	ErrRequestHeaderFieldsTooLarge  = newHTTPError(http.StatusRequestHeaderFieldsTooLarge, "request_header_fields_too_large")
)

// Server errors.
var (
	ErrInternalServerError           = newHTTPError(http.StatusInternalServerError, "internal_server_error")
	ErrNotImplemented                = newHTTPError(http.StatusNotImplemented, "not_implemented")
	ErrBadGateway                    = newHTTPError(http.StatusBadGateway, "bad_gateway")
	ErrServiceUnavailable            = newHTTPError(http.StatusServiceUnavailable, "service_unavailable")
	ErrGatewayTimeout                = newHTTPError(http.StatusGatewayTimeout, "gateway_timeout")
	ErrHTTPVersionNotSupported       = newHTTPError(http.StatusHTTPVersionNotSupported, "http_version_not_supported")
	ErrVariantAlsoNegotiates         = newHTTPError(http.StatusVariantAlsoNegotiates, "variant_also_negotiates")
	ErrInsufficientStorage           = newHTTPError(http.StatusInsufficientStorage, "insufficient_storage")
	ErrLoopDetected                  = newHTTPError(http.StatusLoopDetected, "loop_detected")
	ErrNotExtended                   = newHTTPError(http.StatusNotExtended, "not_extended")
	ErrNetworkAuthenticationRequired = newHTTPError(http.StatusNetworkAuthenticationRequired, "network_authentication_required")
)
