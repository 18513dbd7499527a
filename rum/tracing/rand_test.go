// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracing

import (
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		seen[NewTraceID().String(10)] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestIdentifierConcurrentGeneration(t *testing.T) {
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = make(map[uint64]struct{})
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := NewSpanID().Uint64()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 800)
}

func TestIdentifierHalves(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := NewTraceID().Uint64()
		assert.Less(t, v>>32, uint64(math.MaxUint32))
		assert.Less(t, v&math.MaxUint32, uint64(math.MaxUint32))
	}
}

func TestIdentifierString(t *testing.T) {
	for _, tt := range []struct {
		in    uint64
		radix int
		out   string
	}{
		{0, 10, "0"},
		{0, 16, "0"},
		{255, 16, "ff"},
		{255, 2, "11111111"},
		{35, 36, "z"},
		{math.MaxUint64, 10, "18446744073709551615"},
		{math.MaxUint64, 16, "ffffffffffffffff"},
		{1 << 63, 10, "9223372036854775808"},
		{42, 1, "42"},
		{42, 37, "42"},
	} {
		t.Run(tt.out, func(t *testing.T) {
			assert.Equal(t, tt.out, TraceIDFromUint64(tt.in).String(tt.radix))
			assert.Equal(t, tt.out, SpanIDFromUint64(tt.in).String(tt.radix))
		})
	}
}

func TestIdentifierPaddedString(t *testing.T) {
	id := SpanIDFromUint64(0xa3ce929d0e0e4736)
	assert.Equal(t, "a3ce929d0e0e4736", id.PaddedString(16, 16))
	assert.Equal(t, "0000000000000000a3ce929d0e0e4736", TraceIDFromUint64(id.Uint64()).PaddedString(16, 32))
	assert.Equal(t, "00ff", SpanIDFromUint64(255).PaddedString(16, 4))
	// never truncates
	assert.Equal(t, "a3ce929d0e0e4736", id.PaddedString(16, 4))

	for i := 0; i < 100; i++ {
		id := NewTraceID()
		for _, radix := range []int{10, 16} {
			natural := id.String(radix)
			assert.Equal(t, natural, id.PaddedString(radix, len(natural)))
			padded := id.PaddedString(radix, 32)
			require.GreaterOrEqual(t, len(padded), 32)
			v, err := strconv.ParseUint(padded, radix, 64)
			require.NoError(t, err)
			assert.Equal(t, id.Uint64(), v)
		}
	}
}

func TestIdentifierIsZero(t *testing.T) {
	assert.True(t, TraceID{}.IsZero())
	assert.True(t, SpanID{}.IsZero())
	assert.False(t, TraceIDFromUint64(1).IsZero())
}

func BenchmarkNewTraceID(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		NewTraceID()
	}
}
