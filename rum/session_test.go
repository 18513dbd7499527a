// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package rum

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/dd-rum-go/internal/statsdtest"
	"github.com/DataDog/dd-rum-go/rum/resource/resourcetest"
	"github.com/DataDog/dd-rum-go/rum/tracing"
)

func TestSessionStop(t *testing.T) {
	stats := new(statsdtest.TestStatsdClient)
	s, err := Start(WithStatsdClient(stats))
	require.NoError(t, err)
	assert.True(t, s.Enabled())
	inflight := s.NewRequest()
	require.NotNil(t, inflight)

	s.Stop()
	assert.False(t, s.Enabled())
	assert.Nil(t, s.NewRequest())
	assert.Equal(t, 1, stats.Flushed())
	assert.False(t, stats.Closed(), "clients passed in are not closed")

	s.Stop()
	assert.Equal(t, 1, stats.Flushed())

	// requests in flight are still reported once a sink is set
	sink := new(resourcetest.RecordSink)
	s.SetSink(context.Background(), sink)
	inflight.Open("GET", "https://example.com")
	inflight.Send(context.Background(), nil)
	inflight.Done(200, nil, nil)
	assert.Len(t, sink.Calls(), 2)
}

func TestSessionTrackingDisabled(t *testing.T) {
	s, err := Start(WithResourceTracking(false))
	require.NoError(t, err)
	defer s.Stop()
	assert.False(t, s.Enabled())
	assert.Nil(t, s.NewRequest())

	var nilSession *Session
	assert.False(t, nilSession.Enabled())
	assert.Nil(t, nilSession.NewRequest())
}

func TestSessionBuffersUntilSinkIsSet(t *testing.T) {
	s, err := Start(
		WithFirstPartyHosts(tracing.FirstPartyHostsFromList([]string{"example.com"})...),
		WithSamplingRate(100),
	)
	require.NoError(t, err)
	defer s.Stop()

	for _, url := range []string{"https://example.com/a", "https://example.com/b"} {
		r := s.NewRequest()
		r.Open("GET", url)
		r.Send(context.Background(), nil)
		r.Done(200, nil, nil)
	}

	sink := new(resourcetest.RecordSink)
	s.SetSink(context.Background(), sink)
	calls := sink.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, "https://example.com/a", calls[0].URL)
	assert.Equal(t, calls[0].Key, calls[1].Key)
	assert.Equal(t, "https://example.com/b", calls[2].URL)
	assert.Equal(t, calls[2].Key, calls[3].Key)
}

func TestSessionDecide(t *testing.T) {
	s, err := Start(
		WithFirstPartyHosts(tracing.FirstPartyHost{Match: "example.com", PropagatorTypes: []tracing.PropagatorType{tracing.B3}}),
		WithSamplingRate(100),
	)
	require.NoError(t, err)
	defer s.Stop()
	attrs := s.Decide("https://www.example.com/")
	assert.True(t, attrs.Sampled())
	assert.Equal(t, []tracing.PropagatorType{tracing.B3}, attrs.Propagators)
	assert.Equal(t, tracing.Discard, s.Decide("https://example.org/").Strategy)
}

func TestSessionTraceRateLimit(t *testing.T) {
	s, err := Start(
		WithFirstPartyHosts(tracing.FirstPartyHostsFromList([]string{"example.com"})...),
		WithSamplingRate(100),
		WithTraceRateLimit(1),
	)
	require.NoError(t, err)
	defer s.Stop()
	assert.True(t, s.Decide("https://example.com").Sampled())
	assert.False(t, s.Decide("https://example.com").Sampled())
}
