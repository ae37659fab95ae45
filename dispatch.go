// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/apex/log"
)

var errNilRequest = errors.New("nil request")

// call is everything the dispatch algorithm needs to know about one request.
type call struct {
	method Method
	url    string
	body   BodySource
	codec  Codec

	// err is set when the request metadata could not be read.
	err error
}

// describe reads the metadata of req into a call to prefix + req.Path().
// A nil req, or one whose methods panic, yields a call that fails before
// anything is sent.
func describe(prefix string, req Request) (c call) {
	if req == nil {
		return call{url: prefix, err: errNilRequest}
	}
	defer func() {
		if r := recover(); r != nil {
			c = call{url: prefix, err: fmt.Errorf("invalid request %T: %v", req, r)}
		}
	}()
	return requestCall(prefix+req.Path(), req)
}

func requestCall(url string, req Request) call {
	c := call{
		method: req.Method(),
		url:    url,
		body:   BodyOf(req),
	}
	if p, ok := req.(ResponseCodecProvider); ok {
		c.codec = p.ResponseCodec()
	}
	return c
}

// dispatch performs exactly one exchange: encode, send, classify, decode.
func (s *shared) dispatch(ctx context.Context, c call, reply any, opts []CallOption) (err error) {
	co := newCallOptions(opts)
	if len(co.query) > 0 {
		c.url = withQuery(c.url, co.query)
	}

	ctx, span := s.startSpan(ctx, c)
	defer func() { endSpan(span, err) }()

	logger := s.logger.WithFields(log.Fields{"method": c.method, "url": c.url})

	if c.err != nil {
		return c.fail(KindSerialization, c.err)
	}
	if c.body == nil {
		return c.fail(KindSerialization, errNilRequest)
	}
	if !c.method.Valid() {
		return c.fail(KindTransport, fmt.Errorf("unknown http method: %q", c.method))
	}

	data, err := c.body.Body()
	if err != nil {
		return c.fail(KindSerialization, err)
	}
	logger.Debugf("httptyped: request body: %d bytes", len(data))

	request, err := http.NewRequestWithContext(ctx, string(c.method), c.url, bytes.NewReader(data))
	if err != nil {
		return c.fail(KindTransport, fmt.Errorf("failed to create request: %w", err))
	}
	for key, values := range s.headers {
		request.Header[key] = append([]string(nil), values...)
	}
	request.Header.Set("Content-Type", bodyContentType(c.body))
	for key, values := range co.headers {
		if key == "Content-Type" {
			request.Header[key] = append([]string(nil), values...)
			continue
		}
		request.Header[key] = append(request.Header[key], values...)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return c.fail(KindTransport, err)
	}
	defer CleanlyCloseBody(response.Body)
	recordStatus(span, response.StatusCode)
	logger.Debugf("httptyped: status: %d", response.StatusCode)

	// Return an error for any non successful status code
	if response.StatusCode < 200 || response.StatusCode > 299 {
		var text string
		if body, err := readBody(response.Body, s.maxBody); err != nil {
			text = fmt.Sprintf("failed to get body: %v", err)
		} else {
			text = bodyText(body)
		}
		return &Error{
			Kind:       KindInvalidStatusCode,
			Method:     c.method,
			URL:        c.url,
			StatusCode: response.StatusCode,
			Body:       text,
		}
	}

	body, err := readBody(response.Body, s.maxBody)
	if err != nil {
		return c.fail(KindTransport, fmt.Errorf("failed to read response body: %w", err))
	}
	logger.Debugf("httptyped: response body: %d bytes", len(body))

	if reply == nil {
		return nil
	}
	codec := s.codec
	if c.codec != nil {
		codec = c.codec
	}
	if co.codec != nil {
		codec = co.codec
	}
	if err := codec.Decode(body, reply); err != nil {
		return &Error{
			Kind:       KindDeserialization,
			Method:     c.method,
			URL:        c.url,
			StatusCode: response.StatusCode,
			Body:       bodyText(body),
			Err:        err,
		}
	}
	return nil
}

func (c call) fail(kind Kind, err error) *Error {
	return &Error{Kind: kind, Method: c.method, URL: c.url, Err: err}
}

func bodyContentType(b BodySource) string {
	switch v := b.(type) {
	case requestBody:
		return v.contentType()
	case ContentTyper:
		if ct := v.ContentType(); ct != "" {
			return ct
		}
	}
	return ContentTypeJSON
}

// withQuery appends query to rawURL without otherwise touching it, so the
// url stays exactly the composed base + path.
func withQuery(rawURL string, query map[string][]string) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + url.Values(query).Encode()
}
