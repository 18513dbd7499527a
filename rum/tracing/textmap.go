// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracing

import (
	"net/http"
)

// TextMapWriter allows setting key/value pairs on a carrier, such as the
// headers of an outgoing request.
type TextMapWriter interface {
	// Set sets the given key/value pair.
	Set(key, val string)
}

// TextMapReader is implemented by carriers whose values can also be read and
// removed.
type TextMapReader interface {
	// Get returns the value set for key, or the empty string.
	Get(key string) string
	// Del removes key.
	Del(key string)
}

// HTTPHeadersCarrier wraps an http.Header as a TextMapWriter and
// TextMapReader. Keys are case-insensitive.
type HTTPHeadersCarrier http.Header

var (
	_ TextMapWriter = (*HTTPHeadersCarrier)(nil)
	_ TextMapReader = (*HTTPHeadersCarrier)(nil)
)

// Set implements TextMapWriter.
func (c HTTPHeadersCarrier) Set(key, val string) {
	http.Header(c).Set(key, val)
}

// Get implements TextMapReader.
func (c HTTPHeadersCarrier) Get(key string) string {
	return http.Header(c).Get(key)
}

// Del implements TextMapReader.
func (c HTTPHeadersCarrier) Del(key string) {
	http.Header(c).Del(key)
}

// TextMapCarrier allows the use of a regular map[string]string as a
// TextMapWriter and TextMapReader.
type TextMapCarrier map[string]string

var (
	_ TextMapWriter = (*TextMapCarrier)(nil)
	_ TextMapReader = (*TextMapCarrier)(nil)
)

// Set implements TextMapWriter.
func (c TextMapCarrier) Set(key, val string) {
	c[key] = val
}

// Get implements TextMapReader.
func (c TextMapCarrier) Get(key string) string {
	return c[key]
}

// Del implements TextMapReader.
func (c TextMapCarrier) Del(key string) {
	delete(c, key)
}

const (
	// PriorityHeader holds the sampling priority. It is always sent.
	PriorityHeader = "x-datadog-sampling-priority"

	// TraceIDHeader holds the decimal trace ID for the Datadog format.
	TraceIDHeader = "x-datadog-trace-id"

	// ParentIDHeader holds the decimal span ID for the Datadog format.
	ParentIDHeader = "x-datadog-parent-id"

	// OriginHeader marks requests initiated by the RUM SDK.
	OriginHeader = "x-datadog-origin"

	// OriginRUM is the value of OriginHeader.
	OriginRUM = "rum"
)

const (
	b3TraceIDHeader   = "X-B3-TraceId"
	b3SpanIDHeader    = "X-B3-SpanId"
	b3SampledHeader   = "X-B3-Sampled"
	b3SingleHeader    = "b3"
	traceparentHeader = "traceparent"
)

const (
	traceIDHexLen = 32
	spanIDHexLen  = 16
)

// Header is a single request header name/value pair.
type Header struct {
	Name  string
	Value string
}

// Headers returns the propagation headers for attrs, in a stable order: the
// sampling priority first, then one group per propagator in attrs.
func Headers(attrs Attributes) []Header {
	headers := []Header{{Name: PriorityHeader, Value: attrs.SamplingPriority}}
	if attrs.Strategy != Keep {
		return headers
	}
	for _, p := range attrs.Propagators {
		switch p {
		case Datadog:
			headers = append(headers, datadogHeaders(attrs)...)
		case TraceContext:
			headers = append(headers, traceparentHeaders(attrs)...)
		case B3:
			headers = append(headers, b3SingleHeaders(attrs)...)
		case B3Multi:
			headers = append(headers, b3MultiHeaders(attrs)...)
		}
	}
	return headers
}

// Inject sets the propagation headers for attrs on w.
func Inject(attrs Attributes, w TextMapWriter) {
	for _, h := range Headers(attrs) {
		w.Set(h.Name, h.Value)
	}
}

func datadogHeaders(attrs Attributes) []Header {
	return []Header{
		{Name: TraceIDHeader, Value: attrs.TraceID.String(10)},
		{Name: ParentIDHeader, Value: attrs.SpanID.String(10)},
	}
}

// traceparentHeaders encodes the W3C trace context: version, 128-bit trace ID,
// parent span ID and flags, e.g.
// 00-0000000000000000a3ce929d0e0e4736-00f067aa0ba902b7-01.
func traceparentHeaders(attrs Attributes) []Header {
	flags := "00"
	if attrs.Sampled() {
		flags = "01"
	}
	v := "00-" + attrs.TraceID.PaddedString(16, traceIDHexLen) +
		"-" + attrs.SpanID.PaddedString(16, spanIDHexLen) +
		"-" + flags
	return []Header{{Name: traceparentHeader, Value: v}}
}

func b3SingleHeaders(attrs Attributes) []Header {
	sampled := "0"
	if attrs.Sampled() {
		sampled = "1"
	}
	v := attrs.TraceID.PaddedString(16, traceIDHexLen) +
		"-" + attrs.SpanID.PaddedString(16, spanIDHexLen) +
		"-" + sampled
	return []Header{{Name: b3SingleHeader, Value: v}}
}

// b3MultiHeaders always marks the request as sampled.
func b3MultiHeaders(attrs Attributes) []Header {
	return []Header{
		{Name: b3TraceIDHeader, Value: attrs.TraceID.PaddedString(16, traceIDHexLen)},
		{Name: b3SpanIDHeader, Value: attrs.SpanID.PaddedString(16, spanIDHexLen)},
		{Name: b3SampledHeader, Value: "1"},
	}
}
