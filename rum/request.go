// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package rum

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/DataDog/dd-rum-go/internal"
	"github.com/DataDog/dd-rum-go/internal/log"
	"github.com/DataDog/dd-rum-go/rum/resource"
	"github.com/DataDog/dd-rum-go/rum/tracing"
)

// Request tracks the lifecycle of a single outgoing request:
// Open, Send, an optional HeadersReceived, then Done or Abort. The first
// terminal call reports the resource; later ones are no-ops. A nil *Request
// ignores every call, which is what a disabled Session hands out.
//
// Notifications are expected in order but may come from different
// goroutines.
type Request struct {
	session *Session
	now     func() time.Time

	mu        sync.Mutex // guards below fields
	opened    bool
	sent      bool
	method    string
	url       string
	kind      resource.Kind
	attrs     tracing.Attributes
	start     time.Time
	firstByte *time.Time
	graphql   *resource.GraphQLAttributes
	context   map[string]interface{}
	ctx       context.Context

	finish sync.Once
}

// Open records the method and URL of the request and takes the tracing
// decision. The clock doesn't start until Send. Only the first call has an
// effect.
func (r *Request) Open(method, url string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.opened {
		return
	}
	r.opened = true
	r.method = method
	r.url = url
	r.attrs = r.session.decider.Decide(url)
}

// SetKind sets the resource kind reported for the request. The default is
// resource.KindNative.
func (r *Request) SetKind(k resource.Kind) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.kind = k
	r.mu.Unlock()
}

// SetContext adds attributes to the stop call of the resource.
func (r *Request) SetContext(key string, value interface{}) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.context == nil {
		r.context = make(map[string]interface{})
	}
	r.context[key] = value
}

// Attributes returns the tracing decision taken by Open.
func (r *Request) Attributes() tracing.Attributes {
	if r == nil {
		return tracing.DiscardedAttributes()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attrs
}

// Send starts the clock and sets the tracing headers and the origin header on
// w. When w is also a tracing.TextMapReader, GraphQL headers are removed from
// it and recorded. Only the first call has an effect.
func (r *Request) Send(ctx context.Context, w tracing.TextMapWriter) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent {
		return
	}
	if !r.opened {
		log.Debug("Request sent before being opened, it won't be traced.")
		r.attrs = tracing.DiscardedAttributes()
	}
	r.sent = true
	r.start = r.now()
	r.ctx = ctx
	if w == nil {
		return
	}
	if rd, ok := w.(tracing.TextMapReader); ok {
		r.graphql = extractGraphQL(rd)
	}
	tracing.Inject(r.attrs, w)
	w.Set(tracing.OriginHeader, tracing.OriginRUM)
}

// HeadersReceived records the time the response headers were first seen.
// Later calls are ignored.
func (r *Request) HeadersReceived() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.firstByte != nil || !r.sent {
		return
	}
	t := r.now()
	r.firstByte = &t
}

// Done reports the request as completed with the given status code. The
// response size is measured on payload and header, see ResponseSize.
func (r *Request) Done(statusCode int, payload interface{}, header http.Header) {
	if r == nil {
		return
	}
	r.finish.Do(func() {
		size := ResponseSize(payload, header)
		if size == resource.UnknownSize {
			r.session.statsd.Incr(internal.MetricResourceSizeUnknown, nil, 1)
		}
		r.report(statusCode, size)
	})
}

// Abort reports the request as cancelled, without a response.
func (r *Request) Abort() {
	if r == nil {
		return
	}
	r.finish.Do(func() {
		r.report(0, resource.UnknownSize)
	})
}

func (r *Request) report(statusCode int, size int64) {
	res, ok := r.resource(statusCode, size)
	if !ok {
		return
	}
	if err := r.session.reporter.Report(r.reportContext(), res); err != nil {
		log.Error("Failed to report resource: %v", err)
	}
}

// resource assembles the reported resource. It returns false for requests
// which were never opened.
func (r *Request) resource(statusCode int, size int64) (resource.Resource, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.opened {
		log.Debug("Request finished before being opened, not reporting it.")
		return resource.Resource{}, false
	}
	stop := r.now()
	start := r.start
	if !r.sent {
		start = stop
	}
	var ctx map[string]interface{}
	if len(r.context) > 0 {
		ctx = make(map[string]interface{}, len(r.context))
		for k, v := range r.context {
			ctx[k] = v
		}
	}
	return resource.Resource{
		Key:      resourceKey(start, r.method),
		Request:  resource.Request{Method: r.method, URL: r.url, Kind: r.kind},
		Tracing:  r.attrs,
		Response: resource.Response{StatusCode: statusCode, Size: size},
		Timings:  resource.Timings{Start: start, FirstByte: r.firstByte, Stop: stop},
		GraphQL:  r.graphql,
		Context:  ctx,
	}, true
}

func (r *Request) reportContext() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctx == nil {
		return context.Background()
	}
	// the request context is usually done by the time the response is
	// consumed
	return context.WithoutCancel(r.ctx)
}

// resourceKey returns a key unique to a request. Requests started in the
// same millisecond with the same method are told apart by a random suffix.
func resourceKey(start time.Time, method string) string {
	return fmt.Sprintf("%d/%s/%s", start.UnixMilli(), method, tracing.NewSpanID().String(16))
}
