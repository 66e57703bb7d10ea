package sportmonks

import (
	"fmt"
	"net/http"
	"strconv"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fixture-sync/internal/domain/errorlog"
)

type ErrorKind string

const (
	KindNoToken    ErrorKind = "no_token"
	KindTransport  ErrorKind = "transport"
	KindHTTPStatus ErrorKind = "http_status"
	KindDecode     ErrorKind = "decode"
	KindRemote     ErrorKind = "remote_error"
)

// APIError is returned by every failed provider request.
type APIError struct {
	Kind       ErrorKind
	Endpoint   string
	StatusCode int
	Message    string
	RemoteCode string
	cause      error
}

func newAPIError(kind ErrorKind, endpoint string, statusCode int, message string, cause error) *APIError {
	if cause != nil {
		cause = crerr.WithStack(cause)
	}
	return &APIError{
		Kind:       kind,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
		cause:      cause,
	}
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("sportmonks %s %s: %s (status=%d)", e.Kind, e.Endpoint, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("sportmonks %s %s: %s", e.Kind, e.Endpoint, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// HTTPStatusCode is zero unless the provider answered with a non-200 status.
func (e *APIError) HTTPStatusCode() int {
	return e.StatusCode
}

// LogCode maps the failure kind to its error log code.
func (e *APIError) LogCode() string {
	switch e.Kind {
	case KindNoToken:
		return errorlog.CodeNoToken
	case KindTransport:
		return errorlog.CodeTransport
	case KindHTTPStatus:
		if e.StatusCode > 0 {
			return strconv.Itoa(e.StatusCode)
		}
		return errorlog.CodeHTTPStatus
	case KindDecode:
		return errorlog.CodeDecode
	case KindRemote:
		if e.RemoteCode != "" {
			return e.RemoteCode
		}
		return errorlog.CodeRemote
	default:
		return ""
	}
}

func AsAPIError(err error) (*APIError, bool) {
	var target *APIError
	if crerr.As(err, &target) {
		return target, true
	}
	return nil, false
}

func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}

// StatusCode returns the provider HTTP status carried by err, or zero.
func StatusCode(err error) int {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return 0
	}
	return apiErr.StatusCode
}

func isCircuitFailure(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}
	switch apiErr.Kind {
	case KindTransport:
		return true
	case KindHTTPStatus:
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}
