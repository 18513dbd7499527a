// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package rum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/dd-rum-go/internal/log"
	"github.com/DataDog/dd-rum-go/rum/buffer"
	"github.com/DataDog/dd-rum-go/rum/resource"
	"github.com/DataDog/dd-rum-go/rum/tracing"
)

func TestConfigDefaults(t *testing.T) {
	c, err := newConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultSamplingRate, c.samplingRate)
	assert.Equal(t, -1.0, c.traceRateLimit)
	assert.True(t, c.trackResources)
	assert.True(t, c.filterDevResources)
	assert.Equal(t, buffer.DefaultSize, c.bufferSize)
	assert.Empty(t, c.firstPartyHosts)
	assert.Nil(t, c.sink)
}

func TestConfigEnv(t *testing.T) {
	t.Setenv("DD_RUM_RESOURCE_TRACING_SAMPLE_RATE", "55.5")
	t.Setenv("DD_RUM_TRACE_RATE_LIMIT", "10")
	t.Setenv("DD_RUM_TRACKING_ENABLED", "false")
	t.Setenv("DD_DOGSTATSD_ADDR", "localhost:8125")
	t.Setenv("DD_RUM_FIRST_PARTY_HOSTS", "example.com, api.io:b3|B3Multi")

	c, err := newConfig()
	require.NoError(t, err)
	assert.Equal(t, 55.5, c.samplingRate)
	assert.Equal(t, 10.0, c.traceRateLimit)
	assert.False(t, c.trackResources)
	assert.Equal(t, "localhost:8125", c.statsdAddr)
	assert.Equal(t, []tracing.FirstPartyHost{
		{Match: "example.com", PropagatorTypes: []tracing.PropagatorType{tracing.Datadog, tracing.TraceContext}},
		{Match: "api.io", PropagatorTypes: []tracing.PropagatorType{tracing.B3, tracing.B3Multi}},
	}, c.firstPartyHosts)

	t.Run("options-win", func(t *testing.T) {
		c, err := newConfig(WithSamplingRate(1), WithResourceTracking(true), WithFirstPartyHosts())
		require.NoError(t, err)
		assert.Equal(t, 1.0, c.samplingRate)
		assert.True(t, c.trackResources)
		assert.Empty(t, c.firstPartyHosts)
	})
}

func TestConfigLogLevelEnv(t *testing.T) {
	defer log.SetLevel(log.LevelWarn)
	t.Setenv("DD_RUM_LOG_LEVEL", "debug")
	_, err := newConfig()
	require.NoError(t, err)
	assert.True(t, log.DebugEnabled())
}

func TestParseFirstPartyHosts(t *testing.T) {
	defaultTypes := []tracing.PropagatorType{tracing.Datadog, tracing.TraceContext}

	t.Run("formats", func(t *testing.T) {
		tp := new(log.RecordLogger)
		defer log.UseLogger(tp)()
		hosts := ParseFirstPartyHosts([]string{"a.com:", "b.com:b3|b3multi", "c.com:tracecontext"})
		assert.Equal(t, []tracing.FirstPartyHost{
			{Match: "a.com", PropagatorTypes: defaultTypes},
			{Match: "b.com", PropagatorTypes: []tracing.PropagatorType{tracing.B3, tracing.B3Multi}},
			{Match: "c.com", PropagatorTypes: []tracing.PropagatorType{tracing.TraceContext}},
		}, hosts)
		assert.Empty(t, tp.Logs())
	})

	t.Run("unknown-format", func(t *testing.T) {
		tp := new(log.RecordLogger)
		defer log.UseLogger(tp)()
		hosts := ParseFirstPartyHosts([]string{"b.com:datadog|zipkin"})
		assert.Equal(t, []tracing.FirstPartyHost{{Match: "b.com", PropagatorTypes: defaultTypes}}, hosts)
		assert.Len(t, tp.Logs(), 1)
	})

	t.Run("port", func(t *testing.T) {
		tp := new(log.RecordLogger)
		defer log.UseLogger(tp)()
		hosts := ParseFirstPartyHosts([]string{"localhost:8080"})
		assert.Equal(t, []tracing.FirstPartyHost{{Match: "localhost", PropagatorTypes: defaultTypes}}, hosts)
		assert.Empty(t, tp.Logs())

		attrs := tracing.NewDecider(tracing.Compile(hosts), 100).Decide("http://localhost:8080/api")
		assert.Equal(t, tracing.Keep, attrs.Strategy)
		assert.Equal(t, defaultTypes, attrs.Propagators)
	})
}

func TestConfigOptions(t *testing.T) {
	sink := new(recordingSink)
	mapper := func(r resource.Resource) (resource.Resource, error) { return r, nil }
	c, err := newConfig(
		WithSink(sink),
		WithResourceMappers(mapper),
		WithResourceMappers(resource.DevResourceFilter),
		WithDevResourceFilter(false),
		WithStatsdAddr("127.0.0.1:9999"),
		WithBufferSize(5),
		WithTraceRateLimit(3),
	)
	require.NoError(t, err)
	assert.Equal(t, sink, c.sink)
	assert.Len(t, c.mappers, 2)
	assert.False(t, c.filterDevResources)
	assert.Equal(t, "127.0.0.1:9999", c.statsdAddr)
	assert.Equal(t, 5, c.bufferSize)
	assert.Equal(t, 3.0, c.traceRateLimit)
}

func TestConfigFileOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datadog-configuration.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"configuration": {
			"resourceTracingSamplingRate": 80,
			"trackResources": false,
			"firstPartyHosts": [{"match": "file.com", "propagatorTypes": ["b3"]}]
		}
	}`), 0o600))

	t.Run("option", func(t *testing.T) {
		c, err := newConfig(WithConfigFile(path), WithResourceTracking(true))
		require.NoError(t, err)
		assert.Equal(t, 80.0, c.samplingRate)
		assert.True(t, c.trackResources, "options override the file")
		assert.Equal(t, []tracing.FirstPartyHost{
			{Match: "file.com", PropagatorTypes: []tracing.PropagatorType{tracing.B3}},
		}, c.firstPartyHosts)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("DD_RUM_CONFIG_FILE", path)
		t.Setenv("DD_RUM_RESOURCE_TRACING_SAMPLE_RATE", "10")
		c, err := newConfig()
		require.NoError(t, err)
		assert.Equal(t, 80.0, c.samplingRate, "the file overrides the environment")
		assert.False(t, c.trackResources)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Start(WithConfigFile(filepath.Join(t.TempDir(), "nope.json")))
		assert.ErrorIs(t, err, ErrInvalidConfigFile)
	})
}
