// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package resource

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/dd-rum-go/rum/tracing"
)

var epoch = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestResource() Resource {
	fb := epoch.Add(30 * time.Millisecond)
	return Resource{
		Key:     "1709287200000/GET/1",
		Request: Request{Method: "GET", URL: "https://api.example.com/v2/user", Kind: KindXHR},
		Tracing: tracing.Attributes{
			Strategy:         tracing.Keep,
			TraceID:          tracing.TraceIDFromUint64(12),
			SpanID:           tracing.SpanIDFromUint64(34),
			SamplingPriority: "1",
			RuleSampleRate:   1,
			Propagators:      []tracing.PropagatorType{tracing.Datadog},
		},
		Response: Response{StatusCode: 200, Size: 42},
		Timings:  Timings{Start: epoch, FirstByte: &fb, Stop: epoch.Add(50 * time.Millisecond)},
	}
}

func TestStartContext(t *testing.T) {
	t.Run("sampled", func(t *testing.T) {
		r := newTestResource()
		assert.Equal(t, map[string]interface{}{
			KeySpanID:  "34",
			KeyTraceID: "12",
			KeyRulePSR: 1.0,
		}, r.StartContext())
	})

	t.Run("unsampled", func(t *testing.T) {
		r := newTestResource()
		r.Tracing.SamplingPriority = "0"
		assert.Empty(t, r.StartContext())
	})

	t.Run("discarded", func(t *testing.T) {
		r := newTestResource()
		r.Tracing = tracing.DiscardedAttributes()
		assert.Empty(t, r.StartContext())
	})
}

func TestStopContext(t *testing.T) {
	t.Run("timings", func(t *testing.T) {
		r := newTestResource()
		r.Context = map[string]interface{}{"user": "a"}
		attrs := r.StopContext()
		assert.Equal(t, "a", attrs["user"])
		assert.Equal(t, &ResourceTimings{
			FirstByte: Timing{StartTime: 0, Duration: 30e6},
			Download:  Timing{StartTime: 30e6, Duration: 20e6},
			Fetch:     Timing{StartTime: 0, Duration: 50e6},
		}, attrs[KeyResourceTimings])
		assert.NotContains(t, attrs, KeyGraphQLOperationType)
	})

	t.Run("no-first-byte", func(t *testing.T) {
		r := newTestResource()
		r.Timings.FirstByte = nil
		attrs := r.StopContext()
		require.Contains(t, attrs, KeyResourceTimings)
		assert.Nil(t, attrs[KeyResourceTimings])
	})

	t.Run("graphql", func(t *testing.T) {
		r := newTestResource()
		r.GraphQL = &GraphQLAttributes{OperationType: "query", OperationName: "GetUser", Variables: `{"id":1}`}
		attrs := r.StopContext()
		assert.Equal(t, "query", attrs[KeyGraphQLOperationType])
		assert.Equal(t, "GetUser", attrs[KeyGraphQLOperationName])
		assert.Equal(t, `{"id":1}`, attrs[KeyGraphQLVariables])

		r.GraphQL = &GraphQLAttributes{OperationName: "ignored"}
		assert.NotContains(t, r.StopContext(), KeyGraphQLOperationName)
	})
}

func TestResourceTimingsJSON(t *testing.T) {
	r := newTestResource()
	b, err := json.Marshal(r.Timings.Breakdown())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"firstByte": {"startTime": 0, "duration": 30000000},
		"download": {"startTime": 30000000, "duration": 20000000},
		"fetch": {"startTime": 0, "duration": 50000000}
	}`, string(b))
}

func TestTimingsDuration(t *testing.T) {
	r := newTestResource()
	assert.Equal(t, 50*time.Millisecond, r.Timings.Duration())
	r.Timings.Stop = epoch.Add(-time.Second)
	assert.Equal(t, time.Duration(0), r.Timings.Duration())
}

func TestClone(t *testing.T) {
	r := newTestResource()
	r.GraphQL = &GraphQLAttributes{OperationType: "mutation"}
	r.Context = map[string]interface{}{
		"list":  []interface{}{"a", map[string]interface{}{"b": 1}},
		"tags":  []string{"x"},
		"attrs": map[string]string{"k": "v"},
		"deep": map[string]interface{}{
			"l2": map[string]interface{}{
				"l3": map[string]interface{}{
					"l4": map[string]interface{}{"l5": "shared"},
				},
			},
		},
	}
	c := r.Clone()
	assert.Equal(t, r, c)

	c.Tracing.Propagators[0] = tracing.B3
	c.GraphQL.OperationType = "query"
	*c.Timings.FirstByte = epoch
	c.Context["new"] = true
	c.Context["list"].([]interface{})[1].(map[string]interface{})["b"] = 2
	c.Context["tags"].([]string)[0] = "y"
	c.Context["attrs"].(map[string]string)["k"] = "w"

	assert.Equal(t, tracing.Datadog, r.Tracing.Propagators[0])
	assert.Equal(t, "mutation", r.GraphQL.OperationType)
	assert.Equal(t, epoch.Add(30*time.Millisecond), *r.Timings.FirstByte)
	assert.NotContains(t, r.Context, "new")
	assert.Equal(t, 1, r.Context["list"].([]interface{})[1].(map[string]interface{})["b"])
	assert.Equal(t, "x", r.Context["tags"].([]string)[0])
	assert.Equal(t, "v", r.Context["attrs"].(map[string]string)["k"])

	// values past the depth limit are shared
	l3 := func(res Resource) map[string]interface{} {
		return res.Context["deep"].(map[string]interface{})["l2"].(map[string]interface{})["l3"].(map[string]interface{})
	}
	l3(c)["l4"].(map[string]interface{})["l5"] = "changed"
	assert.Equal(t, "changed", l3(r)["l4"].(map[string]interface{})["l5"])
	l3(c)["extra"] = 1
	assert.NotContains(t, l3(r), "extra")
}

func TestCloneCycle(t *testing.T) {
	cyclic := map[string]interface{}{}
	cyclic["self"] = cyclic
	r := Resource{Context: map[string]interface{}{"c": cyclic}}
	assert.NotPanics(t, func() { r.Clone() })
}
