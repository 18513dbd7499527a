// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracing

import (
	"math"

	"golang.org/x/time/rate"

	"github.com/DataDog/dd-rum-go/internal/log"
)

// Strategy tells whether a request takes part in distributed tracing.
type Strategy int

const (
	// Discard means the destination is not first party: no identifiers are
	// propagated.
	Discard Strategy = iota
	// Keep means identifiers are propagated. The trace may still be
	// unsampled, see Attributes.SamplingPriority.
	Keep
)

func (s Strategy) String() string {
	if s == Keep {
		return "KEEP"
	}
	return "DISCARD"
}

const (
	priorityReject = "0"
	priorityKeep   = "1"
)

// Attributes is the tracing decision taken for a single request.
type Attributes struct {
	Strategy Strategy

	// TraceID and SpanID are only set when Strategy is Keep.
	TraceID TraceID
	SpanID  SpanID

	// SamplingPriority is the value of the x-datadog-sampling-priority
	// header: "1" if the request is sampled, "0" otherwise.
	SamplingPriority string

	// RuleSampleRate is the configured sampling rate as a fraction in [0, 1].
	RuleSampleRate float64

	// Propagators holds the formats to propagate with, when Strategy is Keep.
	Propagators []PropagatorType
}

// DiscardedAttributes returns the decision for requests which are not traced.
func DiscardedAttributes() Attributes {
	return Attributes{Strategy: Discard, SamplingPriority: priorityReject}
}

// Sampled reports whether the request is kept by sampling.
func (a Attributes) Sampled() bool {
	return a.Strategy == Keep && a.SamplingPriority == priorityKeep
}

// Has reports whether the attributes propagate using p.
func (a Attributes) Has(p PropagatorType) bool {
	for _, v := range a.Propagators {
		if v == p {
			return true
		}
	}
	return false
}

// Decider takes the tracing decision for outgoing requests. Host matching and
// sampling are independent: a first party request which is not sampled still
// gets identifiers so the receiving service can link to it.
//
// A Decider is immutable and safe for concurrent use.
type Decider struct {
	matcher      *HostMatcher
	samplingRate float64 // percentage in [0, 100]
	limiter      *rate.Limiter
	draw         func() float64
}

// DeciderOption configures a Decider.
type DeciderOption func(*Decider)

// WithRateLimit caps the number of sampled traces per second. Sampled
// decisions over the limit are turned into unsampled ones. A negative or NaN
// limit disables the cap, which is the default.
func WithRateLimit(perSecond float64) DeciderOption {
	return func(d *Decider) {
		if perSecond < 0 || math.IsNaN(perSecond) || math.IsInf(perSecond, 1) {
			d.limiter = nil
			return
		}
		d.limiter = rate.NewLimiter(rate.Limit(perSecond), int(math.Ceil(perSecond)))
	}
}

// withRandom replaces the source of the sampling draw. Used in tests.
func withRandom(f func() float64) DeciderOption {
	return func(d *Decider) {
		d.draw = f
	}
}

// NewDecider returns a Decider for the first party hosts known to matcher,
// sampling samplingRate percent of first party requests. Rates outside
// [0, 100] are clamped with a warning.
func NewDecider(matcher *HostMatcher, samplingRate float64, opts ...DeciderOption) *Decider {
	switch {
	case math.IsNaN(samplingRate):
		log.Warn("Invalid resource tracing sampling rate NaN, using 0.")
		samplingRate = 0
	case samplingRate < 0:
		log.Warn("Resource tracing sampling rate %f is negative, using 0.", samplingRate)
		samplingRate = 0
	case samplingRate > 100:
		log.Warn("Resource tracing sampling rate %f is above 100, using 100.", samplingRate)
		samplingRate = 100
	}
	d := &Decider{
		matcher:      matcher,
		samplingRate: samplingRate,
		draw:         random.Float64,
	}
	for _, fn := range opts {
		fn(d)
	}
	return d
}

// SamplingRate returns the sampling percentage used by d.
func (d *Decider) SamplingRate() float64 {
	return d.samplingRate
}

// Decide returns the tracing attributes of a request to rawURL. Malformed
// URLs are never traced.
func (d *Decider) Decide(rawURL string) Attributes {
	host, path, ok := ParseHostPath(rawURL)
	if !ok {
		log.Debug("Could not find a host in %q, not tracing it.", rawURL)
	}
	return d.DecideHost(host, path, ok)
}

// DecideHost is like Decide for an already parsed host and path. ok false
// stands for a missing host.
func (d *Decider) DecideHost(host, path string, ok bool) Attributes {
	if !ok || host == "" {
		return DiscardedAttributes()
	}
	propagators := d.matcher.Match(host + path)
	if len(propagators) == 0 {
		return DiscardedAttributes()
	}
	attrs := Attributes{
		Strategy:         Keep,
		TraceID:          NewTraceID(),
		SpanID:           NewSpanID(),
		SamplingPriority: priorityReject,
		RuleSampleRate:   d.samplingRate / 100,
		Propagators:      propagators,
	}
	if d.sample() {
		attrs.SamplingPriority = priorityKeep
	}
	return attrs
}

// sample draws the sampling decision of a single request.
func (d *Decider) sample() bool {
	if d.samplingRate <= 0 {
		return false
	}
	if d.draw()*100 > d.samplingRate {
		return false
	}
	if d.limiter != nil && !d.limiter.Allow() {
		log.Debug("Trace rate limit reached, request won't be sampled.")
		return false
	}
	return true
}
