// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package resource holds the model of a finished network request and the
// Reporter which forwards it to a RUM sink.
package resource

import (
	"time"

	"github.com/DataDog/dd-rum-go/rum/tracing"
)

// Kind is the RUM resource type of a request.
type Kind string

const (
	// KindXHR is used for requests made through an XMLHttpRequest-like client.
	KindXHR Kind = "xhr"
	// KindFetch is used for requests made through a fetch-like client.
	KindFetch Kind = "fetch"
	// KindNative is used for requests made by native code.
	KindNative Kind = "native"
	// KindOther is used when the origin of the request is unknown.
	KindOther Kind = "other"
)

// UnknownSize is the response size reported when it could not be measured.
const UnknownSize int64 = -1

// Keys of the contexts sent along with start and stop calls.
const (
	KeySpanID               = "_dd.span_id"
	KeyTraceID              = "_dd.trace_id"
	KeyRulePSR              = "_dd.rule_psr"
	KeyResourceTimings      = "_dd.resource_timings"
	KeyGraphQLOperationType = "_dd.graphql.operation_type"
	KeyGraphQLOperationName = "_dd.graphql.operation_name"
	KeyGraphQLVariables     = "_dd.graphql.variables"
)

// Request describes the outgoing side of a resource.
type Request struct {
	Method string
	URL    string
	Kind   Kind
}

// Response describes the incoming side of a resource. StatusCode is 0 and
// Size is UnknownSize for aborted requests.
type Response struct {
	StatusCode int
	Size       int64
}

// Timings holds the marks recorded during the request lifecycle. FirstByte
// is nil when response headers never arrived.
type Timings struct {
	Start     time.Time
	FirstByte *time.Time
	Stop      time.Time
}

// GraphQLAttributes describe the GraphQL operation carried by a request.
type GraphQLAttributes struct {
	OperationType string
	OperationName string
	// Variables is the JSON encoded variables object.
	Variables string
}

// Resource is a finished request/response pair, ready to be reported.
type Resource struct {
	// Key pairs the start and stop calls of the resource.
	Key      string
	Request  Request
	Tracing  tracing.Attributes
	Response Response
	Timings  Timings
	GraphQL  *GraphQLAttributes
	// Context holds user attributes added to the stop call.
	Context map[string]interface{}
}

// StartContext returns the attributes of the start call. Tracing identifiers
// are only attached to sampled requests.
func (r *Resource) StartContext() map[string]interface{} {
	attrs := make(map[string]interface{}, 3)
	if r.Tracing.Sampled() {
		attrs[KeySpanID] = r.Tracing.SpanID.String(10)
		attrs[KeyTraceID] = r.Tracing.TraceID.String(10)
		attrs[KeyRulePSR] = r.Tracing.RuleSampleRate
	}
	return attrs
}

// StopContext returns the attributes of the stop call: the user context, the
// timing breakdown and the GraphQL operation if any. Reserved keys take
// precedence over user entries.
func (r *Resource) StopContext() map[string]interface{} {
	attrs := make(map[string]interface{}, len(r.Context)+4)
	for k, v := range r.Context {
		attrs[k] = v
	}
	if t := r.Timings.Breakdown(); t != nil {
		attrs[KeyResourceTimings] = t
	} else {
		attrs[KeyResourceTimings] = nil
	}
	if g := r.GraphQL; g != nil && g.OperationType != "" {
		attrs[KeyGraphQLOperationType] = g.OperationType
		if g.OperationName != "" {
			attrs[KeyGraphQLOperationName] = g.OperationName
		}
		if g.Variables != "" {
			attrs[KeyGraphQLVariables] = g.Variables
		}
	}
	return attrs
}
