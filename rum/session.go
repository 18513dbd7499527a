// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package rum tracks outgoing HTTP requests as RUM resources and propagates
// distributed tracing headers to first party hosts.
//
// A Session holds the configuration shared by every tracked request. Each
// request gets its own Request tracker:
//
//	s, err := rum.Start(
//		rum.WithFirstPartyHosts(tracing.FirstPartyHostsFromList([]string{"example.com"})...),
//		rum.WithSamplingRate(100),
//		rum.WithSink(sink),
//	)
//	if err != nil {
//		// handle error
//	}
//	defer s.Stop()
//
// The contrib/net/http package drives Request trackers from an
// http.RoundTripper.
package rum

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/DataDog/dd-rum-go/internal"
	"github.com/DataDog/dd-rum-go/internal/log"
	"github.com/DataDog/dd-rum-go/internal/version"
	"github.com/DataDog/dd-rum-go/rum/buffer"
	"github.com/DataDog/dd-rum-go/rum/resource"
	"github.com/DataDog/dd-rum-go/rum/tracing"
)

// Session is a resource tracking session. Its configuration is fixed at
// Start and it is safe for concurrent use.
type Session struct {
	decider  *tracing.Decider
	reporter *resource.Reporter
	buffer   *buffer.Sink
	statsd   internal.StatsdClient

	// ownStatsd is true when the session created statsd and must close it.
	ownStatsd bool
	enabled   atomic.Bool
	stopped   atomic.Bool
	now       func() time.Time
}

// Start starts a new tracking session configured by opts, on top of the
// environment and the configuration file.
func Start(opts ...StartOption) (*Session, error) {
	c, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return newSession(c)
}

func newSession(c *config) (*Session, error) {
	s := &Session{now: time.Now}
	if c.statsd != nil {
		s.statsd = c.statsd
	} else {
		// on error, the returned client discards metrics
		client, _ := internal.NewStatsdClient(c.statsdAddr, []string{"version:" + version.Tag})
		s.statsd = client
		s.ownStatsd = true
	}

	var mappers []resource.Mapper
	if c.filterDevResources {
		mappers = append(mappers, resource.DevResourceFilter)
	}
	mappers = append(mappers, c.mappers...)

	s.buffer = buffer.New(buffer.WithSize(c.bufferSize), buffer.WithStatsd(s.statsd))
	s.reporter = resource.NewReporter(s.buffer, resource.WithMappers(mappers...), resource.WithStatsd(s.statsd))
	s.decider = tracing.NewDecider(
		tracing.Compile(c.firstPartyHosts),
		c.samplingRate,
		tracing.WithRateLimit(c.traceRateLimit),
	)
	if c.sink != nil {
		s.buffer.Initialize(context.Background(), c.sink)
	}
	s.enabled.Store(c.trackResources)
	log.Debug("Started RUM resource tracking session: sampling rate %.2f%%, %d first party hosts, tracking enabled: %t.",
		s.decider.SamplingRate(), len(c.firstPartyHosts), c.trackResources)
	return s, nil
}

// SetSink sets the sink receiving the reported resources. Resources reported
// before the sink was set are replayed to it in order. Only the first sink
// set, here or through WithSink, is used.
func (s *Session) SetSink(ctx context.Context, sink resource.Sink) {
	s.buffer.Initialize(ctx, sink)
}

// NewRequest returns a tracker for a new request, or nil if the session is
// not tracking resources. A nil *Request is valid and does nothing.
func (s *Session) NewRequest() *Request {
	if s == nil || !s.enabled.Load() {
		return nil
	}
	return &Request{session: s, now: s.now, kind: resource.KindNative}
}

// Decide returns the tracing decision for a request to rawURL without
// tracking it.
func (s *Session) Decide(rawURL string) tracing.Attributes {
	return s.decider.Decide(rawURL)
}

// Enabled reports whether the session tracks resources.
func (s *Session) Enabled() bool {
	return s != nil && s.enabled.Load()
}

// Stop stops tracking. Requests created afterwards are not tracked; those in
// flight are still reported. Stop flushes health metrics.
func (s *Session) Stop() {
	s.enabled.Store(false)
	if s.stopped.Swap(true) {
		log.Debug("RUM resource tracking session stopped more than once.")
		return
	}
	if err := s.statsd.Flush(); err != nil {
		log.Debug("Could not flush health metrics: %v", err)
	}
	if s.ownStatsd {
		s.statsd.Close()
	}
	log.Flush()
}
