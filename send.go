// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

import (
	"context"
)

// Send sends req to baseURL and returns the decoded response. It builds a
// new transport for every call, which is expensive: callers sending more
// than one request should create a Dispatcher with New instead.
//
// The url used for the request is {baseURL}{req.Path()}
func Send[Res any](ctx context.Context, baseURL string, req Request, opts ...Option) (Res, error) {
	d, err := New(baseURL, opts...)
	if err != nil {
		var zero Res
		return zero, &Error{Kind: KindTransport, URL: baseURL, Err: err}
	}
	return Typed[Res](d).Call(ctx, req)
}

// SendCustom sends body to url with an explicit method and returns the
// decoded response. Like Send it builds a new transport for every call.
func SendCustom[Res any](ctx context.Context, url string, method Method, body BodySource, opts ...Option) (Res, error) {
	d, err := New("", opts...)
	if err != nil {
		var zero Res
		return zero, &Error{Kind: KindTransport, Method: method, URL: url, Err: err}
	}
	return Typed[Res](d).CallCustom(ctx, url, method, body)
}
