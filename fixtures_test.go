// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type getUser struct {
	ID int `json:"-"`
}

func (getUser) Method() Method         { return MethodGet }
func (r getUser) Path() string         { return fmt.Sprintf("/users/%d", r.ID) }
func (getUser) Serializer() Serializer { return NoBody{} }
func (getUser) userAPI()               {}

type createUser struct {
	Name string `json:"name"`
}

func (createUser) Method() Method         { return MethodPost }
func (createUser) Path() string           { return "/users" }
func (createUser) Serializer() Serializer { return JSON{} }
func (createUser) userAPI()               {}

// userAPI is the group getUser and createUser belong to.
type userAPI interface {
	Request
	userAPI()
}

type getInvoice struct {
	ID int
}

func (getInvoice) Method() Method         { return MethodGet }
func (r getInvoice) Path() string         { return fmt.Sprintf("/invoices/%d", r.ID) }
func (getInvoice) Serializer() Serializer { return NoBody{} }

type pathRequest struct {
	path string
}

func (pathRequest) Method() Method         { return MethodGet }
func (r pathRequest) Path() string         { return r.path }
func (pathRequest) Serializer() Serializer { return NoBody{} }

type echoRequest struct {
	N       int    `json:"n"`
	Payload string `json:"payload"`
}

func (echoRequest) Method() Method         { return MethodPut }
func (echoRequest) Path() string           { return "/echo" }
func (echoRequest) Serializer() Serializer { return JSON{} }

type unencodable struct {
	C chan int `json:"c"`
}

func (unencodable) Method() Method         { return MethodPost }
func (unencodable) Path() string           { return "/x" }
func (unencodable) Serializer() Serializer { return JSON{} }

type sumRequest struct {
	A int `json:"a"`
	B int `json:"b"`
}

func (sumRequest) Method() Method         { return MethodPost }
func (sumRequest) Path() string           { return "/rpc" }
func (sumRequest) Serializer() Serializer { return JSONRPC{Method: "Arith.Sum"} }
func (sumRequest) ResponseCodec() Codec   { return JSONRPCCodec{} }

type protoEcho struct {
	*wrapperspb.StringValue
}

func (protoEcho) Method() Method         { return MethodPost }
func (protoEcho) Path() string           { return "/echo" }
func (protoEcho) Serializer() Serializer { return Proto{} }

// userRef reads its id through a pointer receiver.
type userRef struct {
	ID int
}

func (*userRef) Method() Method         { return MethodGet }
func (r *userRef) Path() string         { return fmt.Sprintf("/users/%d", r.ID) }
func (*userRef) Serializer() Serializer { return NoBody{} }

// fakeDoer records requests and answers them with respond.
type fakeDoer struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   [][]byte
	respond  func(*http.Request) (*http.Response, error)
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.bodies = append(f.bodies, body)
	f.mu.Unlock()
	if f.respond == nil {
		return newResponse(http.StatusOK, "{}"), nil
	}
	return f.respond(req)
}

func (f *fakeDoer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeDoer) lastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeDoer) lastBody() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[len(f.bodies)-1]
}

func respondWith(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		return newResponse(status, body), nil
	}
}

func newResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// fakeBody fails every read with err.
type fakeBody struct {
	err    error
	closed bool
}

func (b *fakeBody) Read([]byte) (int, error) { return 0, b.err }

func (b *fakeBody) Close() error {
	b.closed = true
	return nil
}

func newTestDispatcher[G Request](base string, doer *fakeDoer, opts ...Option) *Dispatcher[G] {
	d, err := NewDispatcher[G](base, append([]Option{WithHTTPClient(doer)}, opts...)...)
	if err != nil {
		panic(err)
	}
	return d
}
