// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Dispatcher sends requests of group G to a base url over a shared
// transport. Clones share the transport, and all of them may be used
// concurrently.
type Dispatcher[G Request] struct {
	baseURL string
	shared  *shared
}

// shared is never mutated after construction.
type shared struct {
	client  Doer
	codec   Codec
	logger  log.Interface
	tracer  trace.Tracer
	maxBody int64
	headers http.Header
}

// New creates a dispatcher accepting every request type.
func New(baseURL string, opts ...Option) (*Dispatcher[All], error) {
	return NewDispatcher[All](baseURL, opts...)
}

// NewDispatcher creates a dispatcher restricted to the requests of group G.
// The url of each request is baseURL followed by the request path; an empty
// baseURL means request paths are full urls.
func NewDispatcher[G Request](baseURL string, opts ...Option) (*Dispatcher[G], error) {
	s, err := newShared(opts)
	if err != nil {
		return nil, err
	}
	return &Dispatcher[G]{baseURL: baseURL, shared: s}, nil
}

func newShared(opts []Option) (*shared, error) {
	o := &options{
		timeout: DefaultTimeout,
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, o.err
	}

	s := &shared{
		client:  o.client,
		codec:   o.codec,
		logger:  o.logger,
		tracer:  o.tracer,
		maxBody: o.maxBody,
		headers: o.headers,
	}
	if s.client == nil {
		s.client = NewHTTPClient(o.timeout)
	}
	if s.codec == nil {
		s.codec = defaultCodec
	}
	if s.logger == nil {
		s.logger = &log.Logger{Handler: discard.Default, Level: log.DebugLevel}
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s, nil
}

// BaseURL returns the url prefix of every request sent by d.
func (d *Dispatcher[G]) BaseURL() string {
	return d.baseURL
}

// Clone returns a copy of d sharing its transport.
func (d *Dispatcher[G]) Clone() *Dispatcher[G] {
	c := *d
	return &c
}

// WithBaseURL returns a copy of d sharing its transport but sending to baseURL.
func (d *Dispatcher[G]) WithBaseURL(baseURL string) *Dispatcher[G] {
	return &Dispatcher[G]{baseURL: baseURL, shared: d.shared}
}

// Send sends req to the dispatcher's base url and decodes a successful
// response into reply, which must be a pointer or nil to discard the body.
// A nil req, or one whose methods panic on a nil receiver, fails as a
// serialization error without sending anything.
//
// The url used for the request is {base url}{req.Path()}
func (d *Dispatcher[G]) Send(ctx context.Context, req G, reply any, opts ...CallOption) error {
	return d.shared.dispatch(ctx, describe(d.baseURL, req), reply, opts)
}

// SendTo is like Send but inserts infix between the base url and the request
// path. With an empty base url, infix can hold the whole url prefix.
//
// The url used for the request is {base url}{infix}{req.Path()}
func (d *Dispatcher[G]) SendTo(ctx context.Context, infix string, req G, reply any, opts ...CallOption) error {
	return d.shared.dispatch(ctx, describe(d.baseURL+infix, req), reply, opts)
}

// SendCustom sends body to path with an explicit method, bypassing the
// Request metadata. It accepts any BodySource, so it is not restricted by the
// dispatcher's group.
//
// The url used for the request is {base url}{path}
func (d *Dispatcher[G]) SendCustom(ctx context.Context, path string, method Method, body BodySource, reply any, opts ...CallOption) error {
	return d.shared.dispatch(ctx, call{method: method, url: d.baseURL + path, body: body}, reply, opts)
}

// Caller is a view of a Dispatcher that returns decoded responses of type
// Res instead of filling a reply pointer. Create one with Typed:
//
//	user, err := httptyped.Typed[User](d).Call(ctx, GetUser{ID: 7})
//
// Its methods take requests of group G like the dispatcher's, so sending a
// non-member still fails to compile. A Caller is a value; creating one per
// call is free.
type Caller[Res any, G Request] struct {
	d *Dispatcher[G]
}

// Typed returns the Caller of d decoding responses into Res.
func Typed[Res any, G Request](d *Dispatcher[G]) Caller[Res, G] {
	return Caller[Res, G]{d: d}
}

// Call is Send returning the decoded response.
func (c Caller[Res, G]) Call(ctx context.Context, req G, opts ...CallOption) (Res, error) {
	var res Res
	if err := c.d.Send(ctx, req, &res, opts...); err != nil {
		var zero Res
		return zero, err
	}
	return res, nil
}

// CallTo is SendTo returning the decoded response.
func (c Caller[Res, G]) CallTo(ctx context.Context, infix string, req G, opts ...CallOption) (Res, error) {
	var res Res
	if err := c.d.SendTo(ctx, infix, req, &res, opts...); err != nil {
		var zero Res
		return zero, err
	}
	return res, nil
}

// CallCustom is SendCustom returning the decoded response.
func (c Caller[Res, G]) CallCustom(ctx context.Context, path string, method Method, body BodySource, opts ...CallOption) (Res, error) {
	var res Res
	if err := c.d.SendCustom(ctx, path, method, body, &res, opts...); err != nil {
		var zero Res
		return zero, err
	}
	return res, nil
}

// Option configures a Dispatcher
type Option func(*options)

type options struct {
	client  Doer
	timeout time.Duration
	codec   Codec
	logger  log.Interface
	tracer  trace.Tracer
	maxBody int64
	headers http.Header
	err     error
}

// WithHTTPClient sets the transport. WithTimeout has no effect on it.
func WithHTTPClient(c Doer) Option {
	return func(o *options) { o.client = c }
}

// WithTimeout sets the timeout of the transport built by the dispatcher
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d < 0 {
			o.err = fmt.Errorf("negative timeout: %s", d)
			return
		}
		o.timeout = d
	}
}

// WithCodec sets the codec decoding response bodies
func WithCodec(c Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithCodecNamed sets the response codec to one registered with RegisterCodec
func WithCodecNamed(name string) Option {
	return func(o *options) {
		c, ok := LookupCodec(name)
		if !ok {
			o.err = fmt.Errorf("unknown codec: %s", name)
			return
		}
		o.codec = c
	}
}

// WithLogger sets the logger receiving debug traces of each exchange
func WithLogger(l log.Interface) Option {
	return func(o *options) { o.logger = l }
}

// WithTracer sets the tracer creating one span per exchange. The default
// comes from the global TracerProvider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithMaxBodySize limits how many response bytes are read. Zero means no limit.
func WithMaxBodySize(n int64) Option {
	return func(o *options) { o.maxBody = n }
}

// WithDefaultHeader adds a header sent with every request
func WithDefaultHeader(key, value string) Option {
	return func(o *options) { o.headers.Add(key, value) }
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(ua string) Option {
	return func(o *options) { o.headers.Set("User-Agent", ua) }
}

// CallOption configures a single request
type CallOption func(*callOptions)

type callOptions struct {
	headers http.Header
	query   map[string][]string
	codec   Codec
}

func newCallOptions(opts []CallOption) *callOptions {
	co := &callOptions{}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// WithHeader adds a header to one request. Values add to the default
// headers of the same key; a Content-Type set here replaces the one declared
// by the request serializer.
func WithHeader(key, value string) CallOption {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = make(http.Header)
		}
		o.headers.Add(key, value)
	}
}

// WithQuery adds a query parameter to one request
func WithQuery(key, value string) CallOption {
	return func(o *callOptions) {
		if o.query == nil {
			o.query = make(map[string][]string)
		}
		o.query[key] = append(o.query[key], value)
	}
}

// WithResponseCodec overrides the response codec for one request
func WithResponseCodec(c Codec) CallOption {
	return func(o *callOptions) { o.codec = c }
}
