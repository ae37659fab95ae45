// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

// Request describes one kind of HTTP request. Method and Serializer are
// facts about the type and should return the same value for every instance;
// Path may vary per instance, e.g. to embed a resource id.
//
//	type GetUser struct{ ID int }
//
//	func (GetUser) Method() httptyped.Method             { return httptyped.MethodGet }
//	func (r GetUser) Path() string                       { return fmt.Sprintf("/users/%d", r.ID) }
//	func (GetUser) Serializer() httptyped.Serializer     { return httptyped.NoBody{} }
type Request interface {
	// Method returns the HTTP method the request is sent with
	Method() Method

	// Path returns the string appended to the base url
	Path() string

	// Serializer returns the strategy used to encode the request value
	Serializer() Serializer
}

// ResponseCodecProvider is implemented by requests whose responses need a
// codec other than the dispatcher's, e.g. JSON-RPC calls sent through a
// plain JSON dispatcher.
type ResponseCodecProvider interface {
	ResponseCodec() Codec
}

// BodySource produces the bytes of a request body. It is all SendCustom
// needs, so values that do not implement Request can still be sent.
type BodySource interface {
	Body() ([]byte, error)
}

// BodyOf returns a BodySource encoding req with its own serializer.
func BodyOf(req Request) BodySource {
	return requestBody{req: req}
}

type requestBody struct {
	req Request
}

func (b requestBody) Body() ([]byte, error) {
	return serializerOf(b.req).SerializeBody(b.req)
}

func (b requestBody) contentType() string {
	return contentTypeOf(serializerOf(b.req))
}

// serializerOf falls back to JSON for descriptors returning a nil serializer.
func serializerOf(req Request) Serializer {
	if s := req.Serializer(); s != nil {
		return s
	}
	return JSON{}
}

// RawBody is a BodySource sending its bytes unchanged.
type RawBody []byte

func (b RawBody) Body() ([]byte, error) {
	if b == nil {
		return []byte{}, nil
	}
	return b, nil
}

// JSONBody is a BodySource encoding Value as JSON.
type JSONBody struct {
	Value any
}

func (b JSONBody) Body() ([]byte, error) {
	return JSON{}.SerializeBody(b.Value)
}
