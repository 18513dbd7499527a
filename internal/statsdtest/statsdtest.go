// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package statsdtest provides an in-memory StatsdClient for tests.
package statsdtest

import (
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/DataDog/dd-rum-go/internal"
)

// Kind is the type of a recorded metric.
type Kind int

const (
	KindGauge Kind = iota
	KindIncr
	KindCount
	KindTiming
)

var _ internal.StatsdClient = &TestStatsdClient{}

// TestStatsdClient records every metric it receives.
type TestStatsdClient struct {
	mu      sync.RWMutex
	calls   []TestStatsdCall
	counts  map[string]int64
	closed  bool
	flushed int
}

// TestStatsdCall is a single recorded metric.
type TestStatsdCall struct {
	Kind     Kind
	Name     string
	FloatVal float64
	IntVal   int64
	TimeVal  time.Duration
	Tags     []string
	Rate     float64
}

func (tg *TestStatsdClient) record(c TestStatsdCall) error {
	tg.mu.Lock()
	defer tg.mu.Unlock()
	c.Tags = append([]string(nil), c.Tags...)
	tg.calls = append(tg.calls, c)
	switch c.Kind {
	case KindIncr, KindCount:
		if tg.counts == nil {
			tg.counts = make(map[string]int64)
		}
		tg.counts[c.Name] += c.IntVal
	}
	return nil
}

func (tg *TestStatsdClient) Gauge(name string, value float64, tags []string, rate float64) error {
	return tg.record(TestStatsdCall{Kind: KindGauge, Name: name, FloatVal: value, Tags: tags, Rate: rate})
}

func (tg *TestStatsdClient) Incr(name string, tags []string, rate float64) error {
	return tg.record(TestStatsdCall{Kind: KindIncr, Name: name, IntVal: 1, Tags: tags, Rate: rate})
}

func (tg *TestStatsdClient) Count(name string, value int64, tags []string, rate float64) error {
	return tg.record(TestStatsdCall{Kind: KindCount, Name: name, IntVal: value, Tags: tags, Rate: rate})
}

func (tg *TestStatsdClient) Timing(name string, value time.Duration, tags []string, rate float64) error {
	return tg.record(TestStatsdCall{Kind: KindTiming, Name: name, TimeVal: value, Tags: tags, Rate: rate})
}

func (tg *TestStatsdClient) Flush() error {
	tg.mu.Lock()
	defer tg.mu.Unlock()
	tg.flushed++
	return nil
}

func (tg *TestStatsdClient) Close() error {
	tg.mu.Lock()
	defer tg.mu.Unlock()
	tg.closed = true
	return nil
}

// CallsByName returns the recorded metrics named name, in order.
func (tg *TestStatsdClient) CallsByName(name string) []TestStatsdCall {
	tg.mu.RLock()
	defer tg.mu.RUnlock()
	var calls []TestStatsdCall
	for _, c := range tg.calls {
		if c.Name == name {
			calls = append(calls, c)
		}
	}
	return calls
}

// Counts returns the sum of Incr and Count values per metric name.
func (tg *TestStatsdClient) Counts() map[string]int64 {
	tg.mu.RLock()
	defer tg.mu.RUnlock()
	c := make(map[string]int64, len(tg.counts))
	for k, v := range tg.counts {
		c[k] = v
	}
	return c
}

// Reset forgets every recorded metric.
func (tg *TestStatsdClient) Reset() {
	tg.mu.Lock()
	defer tg.mu.Unlock()
	tg.calls = tg.calls[:0]
	tg.counts = nil
}

// Wait blocks until n metrics have been recorded or until d passes.
func (tg *TestStatsdClient) Wait(asserts *assert.Assertions, n int, d time.Duration) error {
	c := func() bool {
		tg.mu.RLock()
		defer tg.mu.RUnlock()
		return len(tg.calls) >= n
	}
	if !asserts.Eventually(c, d, 10*time.Millisecond) {
		return fmt.Errorf("timed out after waiting %s for %d metrics", d, n)
	}
	return nil
}

func (tg *TestStatsdClient) Closed() bool {
	tg.mu.RLock()
	defer tg.mu.RUnlock()
	return tg.closed
}

func (tg *TestStatsdClient) Flushed() int {
	tg.mu.RLock()
	defer tg.mu.RUnlock()
	return tg.flushed
}
