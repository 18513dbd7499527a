// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package http provides functions to track resources and propagate traces
// for requests made with the net/http client.
package http // import "github.com/DataDog/dd-rum-go/contrib/net/http"

import (
	"io"
	"net/http"
	"net/http/httptrace"
	"sync/atomic"

	"github.com/DataDog/dd-rum-go/rum"
	"github.com/DataDog/dd-rum-go/rum/tracing"
)

type roundTripper struct {
	base    http.RoundTripper
	session *rum.Session
	cfg     *roundTripperConfig
}

func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.cfg.ignoreRequest(req) {
		return rt.base.RoundTrip(req)
	}
	r := rt.session.NewRequest()
	if r == nil {
		return rt.base.RoundTrip(req)
	}
	// Make a copy of the URL so we don't report userinfo
	url := *req.URL
	url.User = nil
	r.Open(req.Method, url.String())
	r.SetKind(rt.cfg.kind)
	if rt.cfg.before != nil {
		rt.cfg.before(req, r)
	}

	ctx := httptrace.WithClientTrace(req.Context(), &httptrace.ClientTrace{
		GotFirstResponseByte: r.HeadersReceived,
	})
	// headers are set on a copy so the caller's request is left untouched
	r2 := req.Clone(ctx)
	r.Send(req.Context(), tracing.HTTPHeadersCarrier(r2.Header))

	res, err := rt.base.RoundTrip(r2)
	if rt.cfg.after != nil {
		rt.cfg.after(res, r)
	}
	if err != nil {
		r.Abort()
		return res, err
	}
	r.HeadersReceived()
	if res.Body == nil || res.Body == http.NoBody || res.StatusCode == http.StatusSwitchingProtocols {
		r.Done(res.StatusCode, rum.BytesRead(0), res.Header)
		return res, nil
	}
	res.Body = &body{
		ReadCloser: res.Body,
		req:        r,
		statusCode: res.StatusCode,
		header:     res.Header,
	}
	return res, nil
}

// Unwrap returns the original http.RoundTripper.
func (rt *roundTripper) Unwrap() http.RoundTripper {
	return rt.base
}

// body reports the request once the response body has been read to the end
// or closed, whichever comes first.
type body struct {
	io.ReadCloser
	req        *rum.Request
	statusCode int
	header     http.Header
	n          atomic.Int64
}

func (b *body) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	b.n.Add(int64(n))
	switch {
	case err == io.EOF:
		b.req.Done(b.statusCode, rum.BytesRead(b.n.Load()), b.header)
	case err != nil:
		b.req.Abort()
	}
	return n, err
}

func (b *body) Close() error {
	err := b.ReadCloser.Close()
	b.req.Done(b.statusCode, rum.BytesRead(b.n.Load()), b.header)
	return err
}

// WrapRoundTripper returns a new RoundTripper which tracks all requests sent
// over the transport with s and propagates traces to first party hosts.
func WrapRoundTripper(rt http.RoundTripper, s *rum.Session, opts ...RoundTripperOption) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	cfg := newRoundTripperConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if wrapped, ok := rt.(*roundTripper); ok {
		rt = wrapped.base
	}
	return &roundTripper{
		base:    rt,
		session: s,
		cfg:     cfg,
	}
}

// WrapClient modifies the given client's transport to augment it with
// resource tracking and returns it.
func WrapClient(c *http.Client, s *rum.Session, opts ...RoundTripperOption) *http.Client {
	if c.Transport == nil {
		c.Transport = http.DefaultTransport
	}
	c.Transport = WrapRoundTripper(c.Transport, s, opts...)
	return c
}
