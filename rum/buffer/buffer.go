// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package buffer provides a resource.Sink which queues calls made before
// the RUM SDK is initialized and replays them once it is.
package buffer

import (
	"context"
	"errors"
	"sync"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/google/uuid"

	"github.com/DataDog/dd-rum-go/internal"
	"github.com/DataDog/dd-rum-go/internal/log"
	"github.com/DataDog/dd-rum-go/rum/resource"
)

// DefaultSize is the default maximum number of queued calls.
const DefaultSize = 100

// ErrBufferFull is returned when a call is dropped because the buffer is full.
var ErrBufferFull = errors.New("buffer full")

type entry struct {
	// id identifies the start call of the resource. The matching stop call
	// carries the same id.
	id   uuid.UUID
	stop bool

	key        string
	method     string
	url        string
	statusCode int
	kind       resource.Kind
	size       int64
	attrs      map[string]interface{}
	timestamp  int64
}

// Sink is a resource.Sink queuing calls until Initialize is called. It is
// safe for concurrent use.
type Sink struct {
	mu       sync.Mutex // guards below fields
	target   resource.Sink
	queue    []entry
	pending  map[string]uuid.UUID // key -> id of queued start calls without a stop
	warned   bool                 // overflow was logged since the last drain
	draining bool

	size   int
	statsd internal.StatsdClient
}

var _ resource.Sink = (*Sink)(nil)

// Option configures a Sink.
type Option func(*Sink)

// WithSize sets the maximum number of queued calls. Values lower than 1 are
// ignored.
func WithSize(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.size = n
		}
	}
}

// WithStatsd sets the client receiving overflow metrics.
func WithStatsd(c internal.StatsdClient) Option {
	return func(s *Sink) {
		if c != nil {
			s.statsd = c
		}
	}
}

// New returns an empty, uninitialized Sink.
func New(opts ...Option) *Sink {
	s := &Sink{
		pending: make(map[string]uuid.UUID),
		size:    DefaultSize,
		statsd:  &statsd.NoOpClient{},
	}
	for _, fn := range opts {
		fn(s)
	}
	return s
}

// StartResource implements resource.Sink.
func (s *Sink) StartResource(ctx context.Context, key, method, url string, attrs map[string]interface{}, timestampMs int64) error {
	s.mu.Lock()
	if s.target != nil {
		target := s.target
		s.mu.Unlock()
		return target.StartResource(ctx, key, method, url, attrs, timestampMs)
	}
	defer s.mu.Unlock()
	if len(s.queue) >= s.size {
		s.overflowLocked()
		return ErrBufferFull
	}
	id := uuid.New()
	s.pending[key] = id
	s.queue = append(s.queue, entry{
		id:        id,
		key:       key,
		method:    method,
		url:       url,
		attrs:     attrs,
		timestamp: timestampMs,
	})
	return nil
}

// StopResource implements resource.Sink. The stop call of a queued start call
// is always queued, even when the buffer is full, so that replay keeps them
// paired. Stop calls without a queued start call are dropped.
func (s *Sink) StopResource(ctx context.Context, key string, statusCode int, kind resource.Kind, size int64, attrs map[string]interface{}, timestampMs int64) error {
	s.mu.Lock()
	if s.target != nil {
		target := s.target
		s.mu.Unlock()
		return target.StopResource(ctx, key, statusCode, kind, size, attrs, timestampMs)
	}
	defer s.mu.Unlock()
	id, ok := s.pending[key]
	if !ok {
		log.Debug("Dropping buffered stop call of resource %s: its start call was not buffered.", key)
		return nil
	}
	delete(s.pending, key)
	s.queue = append(s.queue, entry{
		id:         id,
		stop:       true,
		key:        key,
		statusCode: statusCode,
		kind:       kind,
		size:       size,
		attrs:      attrs,
		timestamp:  timestampMs,
	})
	return nil
}

func (s *Sink) overflowLocked() {
	s.statsd.Incr(internal.MetricBufferOverflow, nil, 1)
	if !s.warned {
		s.warned = true
		log.Warn("Buffer of calls made before initialization is full (%d), dropping calls.", s.size)
	}
}

// Len returns the number of queued calls.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Initialize replays queued calls to target, in the order they were made,
// then forwards every later call directly. Calls made while replaying are
// queued behind the ones being replayed. Errors returned by target are
// logged and do not stop the replay.
func (s *Sink) Initialize(ctx context.Context, target resource.Sink) {
	s.mu.Lock()
	if s.target != nil || s.draining {
		s.mu.Unlock()
		log.Warn("Call buffer initialized more than once. This is likely a programming error.")
		return
	}
	s.draining = true
	for {
		batch := s.queue
		s.queue = nil
		if len(batch) == 0 {
			s.target = target
			s.draining = false
			s.warned = false
			s.pending = make(map[string]uuid.UUID)
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
		for _, e := range batch {
			replay(ctx, target, e)
		}
		s.mu.Lock()
	}
}

func replay(ctx context.Context, target resource.Sink, e entry) {
	var err error
	if e.stop {
		err = target.StopResource(ctx, e.key, e.statusCode, e.kind, e.size, e.attrs, e.timestamp)
	} else {
		err = target.StartResource(ctx, e.key, e.method, e.url, e.attrs, e.timestamp)
	}
	if err != nil {
		log.Error("Replaying buffered call %s for resource %s failed: %v", e.id, e.key, err)
	}
}
