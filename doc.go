// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package httptyped sends typed requests over HTTP. A request type describes
// itself once (method, path, body encoding) and any number of values of that
// type can then be sent through a shared Dispatcher, which handles body
// serialization, the HTTP exchange and response decoding.
//
// The package targets a common pattern:
//
//  1. request-response communication over HTTP
//  2. bodies are JSON unless a request picks another Serializer
//  3. status codes outside the 200 range are errors
//  4. the path and method can be determined from the request value
//
// # Usage
//
// Describe a request by implementing Request:
//
//	type GetUser struct{ ID int }
//
//	func (GetUser) Method() httptyped.Method         { return httptyped.MethodGet }
//	func (r GetUser) Path() string                   { return fmt.Sprintf("/users/%d", r.ID) }
//	func (GetUser) Serializer() httptyped.Serializer { return httptyped.NoBody{} }
//
// Then send it through a Dispatcher:
//
//	d, err := httptyped.New("https://api.example.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	user, err := httptyped.Typed[User](d).Call(ctx, GetUser{ID: 7})
//
// or, with a reply pointer:
//
//	var user User
//	err = d.Send(ctx, GetUser{ID: 7}, &user)
//
// SendTo inserts a string between the base url and the request path:
//
//	err = d.SendTo(ctx, "/v2", GetUser{ID: 7}, &user) // https://api.example.com/v2/users/7
//
// SendCustom skips the Request metadata entirely and takes any BodySource:
//
//	err = d.SendCustom(ctx, "/users", httptyped.MethodPost, httptyped.JSONBody{Value: u}, &created)
//
// The Send and SendCustom functions do the same without a Dispatcher, but
// they build a new transport on every call. Prefer a Dispatcher when sending
// more than one request.
//
// # Request groups
//
// A Dispatcher[G] only accepts requests of group G, checked by the compiler.
// New returns a Dispatcher[All], which accepts every request. See All for how
// to declare a named group.
//
// # Errors
//
// Every failure is an *Error of one of four kinds: the transport failed
// (KindTransport), the body could not be encoded and nothing was sent
// (KindSerialization), a 2xx body did not decode (KindDeserialization), or
// the status was not 2xx (KindInvalidStatusCode). The last two carry the
// response body rendered as text. Nothing is retried.
//
// # Architecture
//
//   - request.go: Request and BodySource
//   - serializer.go: body encoding strategies (JSON, NoBody, JSONRPC, Proto)
//   - group.go: request groups
//   - client.go: Dispatcher and its options
//   - dispatch.go: the encode, send, classify, decode sequence
//   - send.go: one-shot functions
//   - codec.go: response codecs and the codec registry
//   - transport.go: the shared transport handle
//   - errors.go: error taxonomy
//   - trace.go: OpenTelemetry spans
package httptyped
