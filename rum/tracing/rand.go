// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracing

import (
	cryptorand "crypto/rand"
	"math"
	"math/big"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/dd-rum-go/internal/log"
)

var (
	random   randT
	warnOnce sync.Once
	seedSeq  int64
	randPool = sync.Pool{
		New: func() interface{} {
			var seed int64
			n, err := cryptorand.Int(cryptorand.Reader, big.NewInt(math.MaxInt64))
			if err == nil {
				seed = n.Int64()
			} else {
				warnOnce.Do(func() {
					log.Warn("cannot generate random seed: %v; using current time", err)
				})
				seed = time.Now().UnixNano()
			}
			// seedSeq makes sure we don't create two generators with the same seed
			// by accident.
			return rand.New(rand.NewSource(seed + atomic.AddInt64(&seedSeq, 1)))
		},
	}
)

type randT struct{}

// max32 is the exclusive upper bound of each drawn half: [0, 2^32-1).
const max32 = math.MaxUint32

// Uint64 returns a random unsigned 64-bit number built from two independently
// drawn 32-bit halves. It's optimized for concurrent access.
func (randT) Uint64() uint64 {
	r := randPool.Get().(*rand.Rand)
	high := uint64(r.Int63n(max32))
	low := uint64(r.Int63n(max32))
	randPool.Put(r)
	return high<<32 | low
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (randT) Float64() float64 {
	r := randPool.Get().(*rand.Rand)
	v := r.Float64()
	randPool.Put(r)
	return v
}

// identifier is an opaque unsigned 64-bit tracing identifier.
type identifier uint64

func newIdentifier() identifier {
	return identifier(random.Uint64())
}

// format renders id in the given radix, most significant digit first.
// Radixes outside [2, 36] fall back to decimal.
func (id identifier) format(radix int) string {
	if radix < 2 || radix > 36 {
		radix = 10
	}
	return strconv.FormatUint(uint64(id), radix)
}

func (id identifier) pad(radix, length int) string {
	s := id.format(radix)
	if len(s) >= length {
		return s
	}
	return strings.Repeat("0", length-len(s)) + s
}

// TraceID identifies a whole distributed trace.
type TraceID struct{ id identifier }

// SpanID identifies the client-side span of a single request.
type SpanID struct{ id identifier }

// NewTraceID returns a new random TraceID.
func NewTraceID() TraceID { return TraceID{newIdentifier()} }

// NewSpanID returns a new random SpanID.
func NewSpanID() SpanID { return SpanID{newIdentifier()} }

// TraceIDFromUint64 wraps v as a TraceID.
func TraceIDFromUint64(v uint64) TraceID { return TraceID{identifier(v)} }

// SpanIDFromUint64 wraps v as a SpanID.
func SpanIDFromUint64(v uint64) SpanID { return SpanID{identifier(v)} }

// Uint64 returns the raw value of the identifier.
func (t TraceID) Uint64() uint64 { return uint64(t.id) }

// IsZero reports whether t is the zero (unset) identifier.
func (t TraceID) IsZero() bool { return t.id == 0 }

// String returns the identifier in the given radix, without leading zeros.
func (t TraceID) String(radix int) string { return t.id.format(radix) }

// PaddedString returns the identifier in the given radix, left-padded with
// zeros up to length. Longer representations are never truncated.
func (t TraceID) PaddedString(radix, length int) string { return t.id.pad(radix, length) }

// Uint64 returns the raw value of the identifier.
func (s SpanID) Uint64() uint64 { return uint64(s.id) }

// IsZero reports whether s is the zero (unset) identifier.
func (s SpanID) IsZero() bool { return s.id == 0 }

// String returns the identifier in the given radix, without leading zeros.
func (s SpanID) String(radix int) string { return s.id.format(radix) }

// PaddedString returns the identifier in the given radix, left-padded with
// zeros up to length. Longer representations are never truncated.
func (s SpanID) PaddedString(radix, length int) string { return s.id.pad(radix, length) }
