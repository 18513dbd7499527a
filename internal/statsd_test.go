// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package internal

import (
	"testing"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/stretchr/testify/assert"
)

func TestNewStatsdClient(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		c, err := NewStatsdClient("", nil)
		assert.NoError(t, err)
		assert.IsType(t, &statsd.NoOpClient{}, c)
		assert.NoError(t, c.Incr(MetricResourceReported, nil, 1))
	})

	t.Run("udp", func(t *testing.T) {
		c, err := NewStatsdClient("127.0.0.1:8125", []string{"env:test"})
		assert.NoError(t, err)
		assert.IsType(t, &statsd.Client{}, c)
		assert.NoError(t, c.Close())
	})
}
