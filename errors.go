// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Kind classifies a dispatch failure.
type Kind int

const (
	// KindTransport means the transport failed before or during the exchange.
	KindTransport Kind = iota + 1

	// KindSerialization means the request body could not be encoded. No
	// request was sent.
	KindSerialization

	// KindDeserialization means a 2xx response body did not decode into the
	// expected response type.
	KindDeserialization

	// KindInvalidStatusCode means the server answered with a non-2xx status.
	KindInvalidStatusCode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindSerialization:
		return "serialization"
	case KindDeserialization:
		return "deserialization"
	case KindInvalidStatusCode:
		return "invalid status code"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels matching each Kind with errors.Is.
var (
	ErrTransport         = errors.New("httptyped: transport error")
	ErrSerialization     = errors.New("httptyped: request body serialization error")
	ErrDeserialization   = errors.New("httptyped: response body deserialization error")
	ErrInvalidStatusCode = errors.New("httptyped: invalid status code")
)

// Error is returned by every dispatch operation that fails.
type Error struct {
	Kind   Kind
	Method Method
	URL    string

	// StatusCode is set for KindInvalidStatusCode and KindDeserialization.
	StatusCode int

	// Body is a best-effort text rendering of the response body, set for
	// KindInvalidStatusCode and KindDeserialization.
	Body string

	// Err is the underlying diagnostic. It is nil for KindInvalidStatusCode.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("httptyped: %s %s: transport error: %v", e.Method, e.URL, e.Err)
	case KindSerialization:
		return fmt.Sprintf("httptyped: %s %s: request body serialization error: %v", e.Method, e.URL, e.Err)
	case KindDeserialization:
		return fmt.Sprintf("httptyped: %s %s: deserialization error `%v` while parsing response body: %s",
			e.Method, e.URL, e.Err, e.Body)
	case KindInvalidStatusCode:
		return fmt.Sprintf("httptyped: %s %s: invalid status code %d with response body: `%s`",
			e.Method, e.URL, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("httptyped: %s %s: %v", e.Method, e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrSerialization:
		return e.Kind == KindSerialization
	case ErrDeserialization:
		return e.Kind == KindDeserialization
	case ErrInvalidStatusCode:
		return e.Kind == KindInvalidStatusCode
	}
	return false
}

// StatusCode returns the status code carried by an InvalidStatusCode error.
func StatusCode(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindInvalidStatusCode {
		return e.StatusCode, true
	}
	return 0, false
}

// ResponseBody returns the rendered response body carried by err, if any.
func ResponseBody(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && (e.Kind == KindInvalidStatusCode || e.Kind == KindDeserialization) {
		return e.Body, true
	}
	return "", false
}

// bodyText renders a body as text. It never fails: invalid UTF-8 is
// replaced by a diagnostic.
func bodyText(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	return fmt.Sprintf("could not read message body as a string: invalid utf-8 at byte %d", invalidUTF8At(body))
}

func invalidUTF8At(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(b)
}
