// Package errors defines the single error type returned by every graw operation.
//
// Callers distinguish failures by Kind (or with errors.Is against the sentinels
// below) to decide whether to retry, re-authenticate, or give up.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an Error.
type Kind int

const (
	// KindUnknown is the zero Kind; it is never produced by this module.
	KindUnknown Kind = iota
	// KindTransport covers network and HTTP client failures (DNS, TLS, timeouts, resets).
	KindTransport
	// KindHTTP is a non-2xx response. StatusCode carries the code.
	KindHTTP
	// KindDecode is a body that does not match the expected schema, including an
	// unrecognized or missing "kind" tag.
	KindDecode
	// KindDomain is programmatic misuse: malformed FullName, invalid configuration,
	// refresh on an authenticator that cannot refresh.
	KindDomain
	// KindExpired means the token is expired and the authenticator cannot renew it.
	KindExpired
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindDecode:
		return "decode"
	case KindDomain:
		return "domain"
	case KindExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Sentinels usable with errors.Is.
var (
	ErrNotFound           = errors.New("the requested value was not found")
	ErrExpiredToken       = errors.New("the token has expired")
	ErrRefreshUnsupported = errors.New("authenticator cannot refresh its token")
	ErrNoRefreshToken     = errors.New("no refresh token available")
	ErrInvalidFullName    = errors.New("invalid full name")
	ErrUnknownKind        = errors.New("unknown kind")
	ErrMissingKind        = errors.New("missing kind")
	ErrMissingField       = errors.New("missing required field")
	ErrOAuthUnsupported   = errors.New("authenticator does not support oauth")
	ErrInvalidArgument    = errors.New("invalid argument")

	// ErrAPI is a 2xx response whose json.errors array is not empty.
	ErrAPI = errors.New("reddit rejected the request")
)

// Error is the unified error for transport, HTTP status, decode, domain and
// expired-credential failures.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Op names the operation that failed, e.g. "login" or "GET /api/v1/me".
	Op string
	// StatusCode is the HTTP status for KindHTTP errors.
	StatusCode int
	// Body holds the raw response body for KindHTTP errors, if it was read.
	Body string
	// Message is an optional human readable detail.
	Message string
	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	sb.WriteString(" error")
	if e.Op != "" {
		fmt.Fprintf(&sb, " during %s", e.Op)
	}

	var parts []string
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status code %d", e.StatusCode))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Body != "" {
		parts = append(parts, fmt.Sprintf("body: %q", e.Body))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(parts, ", "))
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports 404 responses as ErrNotFound, and expired errors as ErrExpiredToken,
// even when those sentinels are not in the wrap chain.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindHTTP && e.StatusCode == http.StatusNotFound
	case ErrExpiredToken:
		return e.Kind == KindExpired
	}
	return false
}

// NotFound reports whether the HTTP status was 404.
func (e *Error) NotFound() bool {
	return e.Kind == KindHTTP && e.StatusCode == http.StatusNotFound
}

// Transport wraps a network level failure.
func Transport(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

// HTTPStatus builds an error for a non-2xx response.
func HTTPStatus(op string, status int, body string) *Error {
	e := &Error{Kind: KindHTTP, Op: op, StatusCode: status, Body: body}
	if status == http.StatusNotFound {
		e.Err = ErrNotFound
	}
	return e
}

// Decode wraps a schema mismatch.
func Decode(op string, err error) *Error {
	return &Error{Kind: KindDecode, Op: op, Err: err}
}

// Domain reports a misuse of the API.
func Domain(op string, err error, msg string) *Error {
	return &Error{Kind: KindDomain, Op: op, Err: err, Message: msg}
}

// Expired reports a token that cannot be renewed.
func Expired(op string) *Error {
	return &Error{Kind: KindExpired, Op: op, Err: ErrExpiredToken}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsExpired reports whether err is an unrenewable expired token.
func IsExpired(err error) bool {
	return errors.Is(err, ErrExpiredToken)
}
