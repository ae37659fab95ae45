// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

import (
	"fmt"
	"net/http"
	"strings"
)

// Method is the HTTP method a request is sent with.
type Method string

const (
	MethodOptions Method = http.MethodOptions
	MethodGet     Method = http.MethodGet
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodDelete  Method = http.MethodDelete
	MethodHead    Method = http.MethodHead
	MethodTrace   Method = http.MethodTrace
	MethodConnect Method = http.MethodConnect
	MethodPatch   Method = http.MethodPatch
)

var methods = [...]Method{
	MethodOptions,
	MethodGet,
	MethodPost,
	MethodPut,
	MethodDelete,
	MethodHead,
	MethodTrace,
	MethodConnect,
	MethodPatch,
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	for _, v := range methods {
		if m == v {
			return true
		}
	}
	return false
}

func (m Method) String() string {
	return string(m)
}

// ParseMethod parses a method name, ignoring case.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(s))
	if !m.Valid() {
		return "", fmt.Errorf("unknown http method: %q", s)
	}
	return m, nil
}
