package loader

import (
	"context"
	"fmt"
	"net/http"
)

// ResponseType selects how the response body is decoded.
type ResponseType int

const (
	// Binary delivers the payload as raw bytes in Result.Data.
	Binary ResponseType = iota

	// Text delivers the payload as a string in Result.Text.
	Text
)

// Request describes one resource to load. It is immutable for the
// lifetime of a load.
type Request struct {
	// URL of the resource.
	URL string

	// RangeStart and RangeEnd select the half-open byte range
	// [RangeStart, RangeEnd). A zero RangeEnd requests the whole
	// resource.
	RangeStart int64
	RangeEnd   int64

	// ResponseType selects the payload decoding.
	ResponseType ResponseType
}

// Params are the transport parameters derived from a Request. They are
// handed to the RequestFactory, which attaches them to the underlying
// HTTP request.
type Params struct {
	Method string
	Header http.Header
}

// buildParams derives transport parameters from a request. The method is
// always GET; a Range header is attached when the request restricts the
// byte range. No ambient credentials are added here: callers that need
// them supply their own RequestFactory.
func buildParams(req Request) Params {
	p := Params{
		Method: http.MethodGet,
		Header: make(http.Header),
	}
	if req.RangeEnd > 0 {
		// HTTP ranges are inclusive on both ends.
		p.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", req.RangeStart, req.RangeEnd-1))
	}
	return p
}

// RequestFactory builds the underlying HTTP request for a load. The
// supplied context carries the load's cancellation token and must be
// attached to the request. Substituting a factory lets callers add
// instrumentation or credentials without changing loader logic.
type RequestFactory func(ctx context.Context, req Request, params Params) (*http.Request, error)

// DefaultFactory builds a plain HTTP request from the derived parameters.
func DefaultFactory(ctx context.Context, req Request, params Params) (*http.Request, error) {
	hr, err := http.NewRequestWithContext(ctx, params.Method, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for name, values := range params.Header {
		for _, v := range values {
			hr.Header.Add(name, v)
		}
	}
	return hr, nil
}
