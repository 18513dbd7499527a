// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package resource

import "time"

// Timing is a single entry of the timing breakdown. StartTime is the offset
// from the start of the request. Both fields are in nanoseconds.
type Timing struct {
	StartTime int64 `json:"startTime"`
	Duration  int64 `json:"duration"`
}

// ResourceTimings is the value of the _dd.resource_timings attribute.
type ResourceTimings struct {
	// FirstByte spans from the request start until response headers are
	// first seen.
	FirstByte Timing `json:"firstByte"`
	Download  Timing `json:"download"`
	// Fetch spans the whole request.
	Fetch Timing `json:"fetch"`
}

// Breakdown returns the timing breakdown of t, or nil if the first byte was
// never received.
func (t Timings) Breakdown() *ResourceTimings {
	if t.FirstByte == nil {
		return nil
	}
	fb := *t.FirstByte
	return &ResourceTimings{
		FirstByte: timing(t.Start, t.Start, fb),
		Download:  timing(t.Start, fb, t.Stop),
		Fetch:     timing(t.Start, t.Start, t.Stop),
	}
}

// Duration returns the total duration of the request.
func (t Timings) Duration() time.Duration {
	return nonNegative(t.Stop.Sub(t.Start))
}

func timing(origin, start, end time.Time) Timing {
	return Timing{
		StartTime: nonNegative(start.Sub(origin)).Nanoseconds(),
		Duration:  nonNegative(end.Sub(start)).Nanoseconds(),
	}
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
