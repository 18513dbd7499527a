// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package resourcetest provides a recording resource.Sink for tests.
package resourcetest

import (
	"context"
	"sync"

	"github.com/DataDog/dd-rum-go/rum/resource"
)

// Call is a single start or stop call received by a RecordSink.
type Call struct {
	Stop        bool
	Key         string
	Method      string
	URL         string
	StatusCode  int
	Kind        resource.Kind
	Size        int64
	Attrs       map[string]interface{}
	TimestampMs int64
}

// RecordSink records every call it receives. It is safe for concurrent use.
type RecordSink struct {
	mu    sync.Mutex
	calls []Call
}

var _ resource.Sink = (*RecordSink)(nil)

// StartResource implements resource.Sink.
func (s *RecordSink) StartResource(_ context.Context, key, method, url string, attrs map[string]interface{}, timestampMs int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Key: key, Method: method, URL: url, Attrs: attrs, TimestampMs: timestampMs})
	return nil
}

// StopResource implements resource.Sink.
func (s *RecordSink) StopResource(_ context.Context, key string, statusCode int, kind resource.Kind, size int64, attrs map[string]interface{}, timestampMs int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Stop: true, Key: key, StatusCode: statusCode, Kind: kind, Size: size, Attrs: attrs, TimestampMs: timestampMs})
	return nil
}

// Calls returns the recorded calls, in order.
func (s *RecordSink) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Starts returns the recorded start calls.
func (s *RecordSink) Starts() []Call { return s.filter(false) }

// Stops returns the recorded stop calls.
func (s *RecordSink) Stops() []Call { return s.filter(true) }

func (s *RecordSink) filter(stop bool) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var calls []Call
	for _, c := range s.calls {
		if c.Stop == stop {
			calls = append(calls, c)
		}
	}
	return calls
}

// Reset forgets every recorded call.
func (s *RecordSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}
