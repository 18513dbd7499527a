// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/DataDog/dd-rum-go/internal"
	"github.com/DataDog/dd-rum-go/internal/log"
)

// ErrDropped is returned by a Mapper to drop a resource. Dropped resources
// are never sent to the Sink.
var ErrDropped = errors.New("resource dropped")

// Mapper modifies or filters a resource before it is reported. Returning
// ErrDropped drops the resource. Any other error, or a panic, discards the
// changes made by the mapper and reporting carries on without it.
type Mapper func(Resource) (Resource, error)

// Sink receives reported resources. Start and stop calls of a resource share
// the same key.
type Sink interface {
	StartResource(ctx context.Context, key, method, url string, attrs map[string]interface{}, timestampMs int64) error
	StopResource(ctx context.Context, key string, statusCode int, kind Kind, size int64, attrs map[string]interface{}, timestampMs int64) error
}

// Reporter runs finished resources through a chain of mappers and emits
// them to a Sink. It is safe for concurrent use.
type Reporter struct {
	sink    Sink
	mappers []Mapper
	statsd  internal.StatsdClient
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithMappers appends mappers to the chain. Mappers run in the given order.
func WithMappers(mappers ...Mapper) ReporterOption {
	return func(r *Reporter) {
		for _, m := range mappers {
			if m != nil {
				r.mappers = append(r.mappers, m)
			}
		}
	}
}

// WithStatsd sets the client receiving the reporter health metrics.
func WithStatsd(c internal.StatsdClient) ReporterOption {
	return func(r *Reporter) {
		if c != nil {
			r.statsd = c
		}
	}
}

// NewReporter returns a Reporter emitting to sink.
func NewReporter(sink Sink, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		sink:   sink,
		statsd: &statsd.NoOpClient{},
	}
	for _, fn := range opts {
		fn(r)
	}
	return r
}

// Report maps res and emits a start call followed by a stop call. It returns
// nil when the resource is dropped. When the start call fails, the stop call
// is not sent.
func (r *Reporter) Report(ctx context.Context, res Resource) error {
	tags := []string{"kind:" + string(res.Request.Kind)}
	for i, m := range r.mappers {
		// res stays untouched by the mapper and is the checkpoint to
		// restore on failure.
		mapped, err := applyMapper(m, res)
		switch {
		case err == nil:
			res = mapped
		case errors.Is(err, ErrDropped):
			log.Debug("Resource %s dropped by mapper #%d.", res.Key, i)
			r.statsd.Incr(internal.MetricResourceDropped, tags, 1)
			return nil
		default:
			log.Warn("Resource mapper #%d failed, ignoring it: %v", i, err)
			r.statsd.Incr(internal.MetricResourceMapperError, tags, 1)
		}
	}
	if r.sink == nil {
		return nil
	}
	start, stop := res.Timings.Start.UnixMilli(), res.Timings.Stop.UnixMilli()
	if err := r.sink.StartResource(ctx, res.Key, res.Request.Method, res.Request.URL, res.StartContext(), start); err != nil {
		r.statsd.Incr(internal.MetricResourceSinkError, tags, 1)
		return fmt.Errorf("starting resource %s: %w", res.Key, err)
	}
	if err := r.sink.StopResource(ctx, res.Key, res.Response.StatusCode, res.Request.Kind, res.Response.Size, res.StopContext(), stop); err != nil {
		r.statsd.Incr(internal.MetricResourceSinkError, tags, 1)
		return fmt.Errorf("stopping resource %s: %w", res.Key, err)
	}
	r.statsd.Incr(internal.MetricResourceReported, tags, 1)
	return nil
}

// applyMapper runs m on a copy of res, turning a panic into an error.
func applyMapper(m Mapper, res Resource) (out Resource, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return m(res.Clone())
}
