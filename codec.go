// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/gorilla/rpc/v2/json2"
	"google.golang.org/grpc/encoding"
	grpcproto "google.golang.org/grpc/encoding/proto"
	"google.golang.org/grpc/mem"
)

// Codec encodes values into bytes and decodes response bodies back into values.
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(data []byte, v interface{}) error
}

// Codec names understood by LookupCodec and WithCodecNamed.
const (
	CodecJSON    = "json"
	CodecBinary  = "binary"
	CodecJSONRPC = "jsonrpc"
	CodecProto   = "proto"
)

// JSONCodec is a JSON-based codec
type JSONCodec struct{}

func (JSONCodec) Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// defaultCodec is used when no codec is specified
var defaultCodec Codec = JSONCodec{}

// BinaryCodec passes bytes through unchanged (for pre-encoded data)
type BinaryCodec struct{}

func (BinaryCodec) Encode(v interface{}) ([]byte, error) {
	if b, ok := v.([]byte); ok {
		return b, nil
	}
	if b, ok := v.(*[]byte); ok {
		return *b, nil
	}
	return json.Marshal(v)
}

func (BinaryCodec) Decode(data []byte, v interface{}) error {
	if b, ok := v.(*[]byte); ok {
		*b = append((*b)[:0], data...)
		return nil
	}
	if s, ok := v.(*string); ok {
		*s = string(data)
		return nil
	}
	return json.Unmarshal(data, v)
}

// JSONRPCCodec decodes JSON-RPC 2.0 responses. Decode unwraps the result
// member into v and turns a response error object into a *json2.Error.
type JSONRPCCodec struct{}

func (JSONRPCCodec) Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONRPCCodec) Decode(data []byte, v interface{}) error {
	return json2.DecodeClientResponse(bytes.NewReader(data), v)
}

// ProtoCodec encodes protobuf messages using the codec gRPC registers for
// the "proto" content subtype. Values must implement proto.Message.
type ProtoCodec struct{}

func (ProtoCodec) Encode(v interface{}) ([]byte, error) {
	out, err := grpcProtoCodec().Marshal(v)
	if err != nil {
		return nil, err
	}
	defer out.Free()
	return out.Materialize(), nil
}

func (ProtoCodec) Decode(data []byte, v interface{}) error {
	return grpcProtoCodec().Unmarshal(mem.BufferSlice{mem.SliceBuffer(data)}, v)
}

func grpcProtoCodec() encoding.CodecV2 {
	return encoding.GetCodecV2(grpcproto.Name)
}

var (
	codecsMu sync.RWMutex
	codecs   = map[string]Codec{
		CodecJSON:    JSONCodec{},
		CodecBinary:  BinaryCodec{},
		CodecJSONRPC: JSONRPCCodec{},
		CodecProto:   ProtoCodec{},
	}
)

// RegisterCodec makes a codec available under name, replacing any codec
// previously registered with the same name.
func RegisterCodec(name string, c Codec) error {
	if name == "" {
		return fmt.Errorf("register codec: empty name")
	}
	if c == nil {
		return fmt.Errorf("register codec %q: nil codec", name)
	}
	codecsMu.Lock()
	defer codecsMu.Unlock()
	codecs[name] = c
	return nil
}

// LookupCodec returns the codec registered under name.
func LookupCodec(name string) (Codec, bool) {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	c, ok := codecs[name]
	return c, ok
}

// AvailableCodecs returns the sorted names of all registered codecs
func AvailableCodecs() []string {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	result := make([]string, 0, len(codecs))
	for name := range codecs {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// HasCodec checks if a codec is registered
func HasCodec(name string) bool {
	_, ok := LookupCodec(name)
	return ok
}
