// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package internal

import (
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/DataDog/dd-rum-go/internal/log"
)

// StatsdClient is the subset of the DogStatsD client used to report SDK
// health metrics.
type StatsdClient interface {
	Incr(name string, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Gauge(name string, value float64, tags []string, rate float64) error
	Timing(name string, value time.Duration, tags []string, rate float64) error
	Flush() error
	Close() error
}

var _ StatsdClient = (*statsd.Client)(nil)
var _ StatsdClient = (*statsd.NoOpClient)(nil)

// Health metrics emitted by the SDK.
const (
	MetricResourceReported    = "datadog.rum.resource.reported"
	MetricResourceDropped     = "datadog.rum.resource.dropped"
	MetricResourceMapperError = "datadog.rum.resource.mapper_error"
	MetricResourceSinkError   = "datadog.rum.resource.sink_error"
	MetricResourceSizeUnknown = "datadog.rum.resource.size_unknown"
	MetricBufferOverflow      = "datadog.rum.buffer.overflow"
)

// NewStatsdClient returns a DogStatsD client sending to addr. An empty addr
// yields a client which discards every metric.
func NewStatsdClient(addr string, globalTags []string) (StatsdClient, error) {
	if addr == "" {
		return &statsd.NoOpClient{}, nil
	}
	client, err := statsd.New(addr, statsd.WithMaxMessagesPerPayload(40), statsd.WithTags(globalTags))
	if err != nil {
		log.Error("Could not start DogStatsD client on %s: %v", addr, err)
		return &statsd.NoOpClient{}, err
	}
	return client, nil
}
