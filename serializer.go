// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

import (
	"fmt"

	"github.com/gorilla/rpc/v2/json2"
)

// Content types declared by the built-in serializers.
const (
	ContentTypeJSON     = "application/json"
	ContentTypeProtobuf = "application/x-protobuf"
)

// Serializer is a body encoding strategy. Implementations hold no state,
// must not mutate v and must not perform I/O.
type Serializer interface {
	SerializeBody(v any) ([]byte, error)
}

// ContentTyper is implemented by serializers that declare the content type
// of the bodies they produce. Serializers that don't are sent as JSON.
type ContentTyper interface {
	ContentType() string
}

// Infallible marks serializers whose SerializeBody never returns an error.
type Infallible interface {
	Serializer
	infallible()
}

// EncodeError is the error kind of every built-in serializer that can fail.
type EncodeError struct {
	Strategy string
	Err      error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s encode: %v", e.Strategy, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// JSON encodes the request value itself as the JSON body.
type JSON struct{}

func (JSON) SerializeBody(v any) ([]byte, error) {
	data, err := defaultCodec.Encode(v)
	if err != nil {
		return nil, &EncodeError{Strategy: "json", Err: err}
	}
	return data, nil
}

func (JSON) ContentType() string { return ContentTypeJSON }

// NoBody ignores the request value and always produces an empty body.
type NoBody struct{}

var _ Infallible = NoBody{}

func (NoBody) SerializeBody(any) ([]byte, error) {
	return []byte{}, nil
}

func (NoBody) ContentType() string { return ContentTypeJSON }

func (NoBody) infallible() {}

// JSONRPC wraps the request value as the params of a JSON-RPC 2.0 call to
// Method. Pair it with JSONRPCCodec to unwrap the response.
type JSONRPC struct {
	Method string
}

func (s JSONRPC) SerializeBody(v any) ([]byte, error) {
	if s.Method == "" {
		return nil, &EncodeError{Strategy: "jsonrpc", Err: fmt.Errorf("empty rpc method")}
	}
	data, err := json2.EncodeClientRequest(s.Method, v)
	if err != nil {
		return nil, &EncodeError{Strategy: "jsonrpc", Err: err}
	}
	return data, nil
}

func (JSONRPC) ContentType() string { return ContentTypeJSON }

// Proto encodes the request value as a protobuf message. The value must
// implement proto.Message, typically by embedding a generated message.
type Proto struct{}

func (Proto) SerializeBody(v any) ([]byte, error) {
	data, err := ProtoCodec{}.Encode(v)
	if err != nil {
		return nil, &EncodeError{Strategy: "proto", Err: err}
	}
	return data, nil
}

func (Proto) ContentType() string { return ContentTypeProtobuf }

func contentTypeOf(s Serializer) string {
	if ct, ok := s.(ContentTyper); ok {
		if v := ct.ContentType(); v != "" {
			return v
		}
	}
	return ContentTypeJSON
}
