// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package httptyped

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a whole exchange on transports built by this package.
const DefaultTimeout = 30 * time.Second

// Doer is the transport a Dispatcher sends requests through. *http.Client
// implements it. Implementations must be safe for concurrent use.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient creates the transport handle shared by a Dispatcher and its
// clones. Connections are pooled and reused across calls, so building one is
// the expensive part of sending a request.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// CleanlyCloseBody drains and closes an HTTP response body to prevent
// HTTP/2 GOAWAY errors caused by closing bodies with unread data.
// See: https://github.com/golang/go/issues/46071
func CleanlyCloseBody(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	// Drain any remaining data to allow connection reuse
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}

// readBody reads at most limit bytes; limit <= 0 means no limit.
func readBody(body io.Reader, limit int64) ([]byte, error) {
	if body == nil {
		return []byte{}, nil
	}
	if limit <= 0 {
		return io.ReadAll(body)
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}
