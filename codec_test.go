// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/rpc/v2/json2"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestCodecRegistry(t *testing.T) {
	for _, name := range []string{CodecJSON, CodecBinary, CodecJSONRPC, CodecProto} {
		if !HasCodec(name) {
			t.Errorf("codec %q is not registered", name)
		}
	}
	if err := RegisterCodec("", JSONCodec{}); err == nil {
		t.Error("expected an error for an empty name")
	}
	if err := RegisterCodec("nil", nil); err == nil {
		t.Error("expected an error for a nil codec")
	}
	if err := RegisterCodec("test-upper", upperCodec{}); err != nil {
		t.Fatalf("RegisterCodec: %v", err)
	}
	c, ok := LookupCodec("test-upper")
	if !ok {
		t.Fatal("registered codec not found")
	}
	var s string
	if err := c.Decode([]byte("abc"), &s); err != nil || s != "ABC" {
		t.Errorf("got %q %v", s, err)
	}
	names := AvailableCodecs()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names are not sorted: %v", names)
		}
	}
}

type upperCodec struct{}

func (upperCodec) Encode(v interface{}) ([]byte, error) { return JSONCodec{}.Encode(v) }

func (upperCodec) Decode(data []byte, v interface{}) error {
	*(v.(*string)) = strings.ToUpper(string(data))
	return nil
}

func TestBinaryCodec(t *testing.T) {
	data, err := BinaryCodec{}.Encode([]byte("raw"))
	if err != nil || string(data) != "raw" {
		t.Fatalf("Encode: %q %v", data, err)
	}
	var b []byte
	if err := (BinaryCodec{}).Decode([]byte("bytes"), &b); err != nil || string(b) != "bytes" {
		t.Errorf("Decode []byte: %q %v", b, err)
	}
	var s string
	if err := (BinaryCodec{}).Decode([]byte("text"), &s); err != nil || s != "text" {
		t.Errorf("Decode string: %q %v", s, err)
	}
	var u user
	if err := (BinaryCodec{}).Decode([]byte(`{"id":1}`), &u); err != nil || u.ID != 1 {
		t.Errorf("Decode json fallback: %+v %v", u, err)
	}
}

func TestJSONRPCCodec(t *testing.T) {
	var sum int
	err := JSONRPCCodec{}.Decode([]byte(`{"jsonrpc":"2.0","result":3,"id":1}`), &sum)
	if err != nil || sum != 3 {
		t.Fatalf("Decode: %d %v", sum, err)
	}

	err = JSONRPCCodec{}.Decode([]byte(`{"jsonrpc":"2.0","error":{"code":-32601,"message":"method not found"},"id":1}`), &sum)
	var rpcErr *json2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Message != "method not found" {
		t.Fatalf("expected a json2.Error, got %v", err)
	}

	err = JSONRPCCodec{}.Decode([]byte(`{"jsonrpc":"2.0","result":null,"id":1}`), &sum)
	if !errors.Is(err, json2.ErrNullResult) {
		t.Fatalf("expected ErrNullResult, got %v", err)
	}
}

func TestJSONRPCDispatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string     `json:"method"`
			Params sumRequest `json:"params"`
			ID     uint64     `json:"id"`
		}
		if err := (JSONCodec{}).Decode(mustReadAll(r.Body), &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Method != "Arith.Sum" {
			_ = writeJSON(w, map[string]any{"jsonrpc": "2.0", "id": req.ID,
				"error": map[string]any{"code": -32601, "message": "method not found"}})
			return
		}
		_ = writeJSON(w, map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": req.Params.A + req.Params.B})
	}))
	defer server.Close()

	d, err := New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sum, err := Typed[int](d).Call(context.Background(), sumRequest{A: 2, B: 3})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if sum != 5 {
		t.Errorf("got %d, want 5", sum)
	}
}

func TestProtoDispatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != ContentTypeProtobuf {
			http.Error(w, "bad content type "+ct, http.StatusUnsupportedMediaType)
			return
		}
		var in wrapperspb.StringValue
		if err := proto.Unmarshal(mustReadAll(r.Body), &in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out, _ := proto.Marshal(wrapperspb.String(strings.ToUpper(in.GetValue())))
		w.Header().Set("Content-Type", ContentTypeProtobuf)
		_, _ = w.Write(out)
	}))
	defer server.Close()

	d, err := New(server.URL, WithCodecNamed(CodecProto))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := &wrapperspb.StringValue{}
	if err := d.Send(context.Background(), protoEcho{wrapperspb.String("quiet")}, got); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if diff := cmp.Diff("QUIET", got.GetValue()); diff != "" {
		t.Error(diff)
	}

	var notProto user
	err = d.Send(context.Background(), protoEcho{wrapperspb.String("x")}, &notProto)
	if !errors.Is(err, ErrDeserialization) {
		t.Fatalf("expected a deserialization error, got %v", err)
	}
}

func mustReadAll(r io.Reader) []byte {
	data, err := io.ReadAll(r)
	if err != nil {
		panic(err)
	}
	return data
}

func writeJSON(w http.ResponseWriter, v any) error {
	data, err := JSONCodec{}.Encode(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	_, err = w.Write(data)
	return err
}
