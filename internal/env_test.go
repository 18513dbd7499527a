// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoolEnv(t *testing.T) {
	assert.True(t, BoolEnv("DD_RUM_TEST_BOOL", true))
	t.Setenv("DD_RUM_TEST_BOOL", "false")
	assert.False(t, BoolEnv("DD_RUM_TEST_BOOL", true))
	t.Setenv("DD_RUM_TEST_BOOL", "nope")
	assert.True(t, BoolEnv("DD_RUM_TEST_BOOL", true))
}

func TestFloatEnv(t *testing.T) {
	assert.Equal(t, 20.0, FloatEnv("DD_RUM_TEST_FLOAT", 20))
	t.Setenv("DD_RUM_TEST_FLOAT", " 42.5 ")
	assert.Equal(t, 42.5, FloatEnv("DD_RUM_TEST_FLOAT", 20))
	t.Setenv("DD_RUM_TEST_FLOAT", "lots")
	assert.Equal(t, 20.0, FloatEnv("DD_RUM_TEST_FLOAT", 20))
}

func TestStringEnv(t *testing.T) {
	assert.Equal(t, "def", StringEnv("DD_RUM_TEST_STRING", "def"))
	t.Setenv("DD_RUM_TEST_STRING", "  ")
	assert.Equal(t, "def", StringEnv("DD_RUM_TEST_STRING", "def"))
	t.Setenv("DD_RUM_TEST_STRING", "value")
	assert.Equal(t, "value", StringEnv("DD_RUM_TEST_STRING", "def"))
}

func TestListEnv(t *testing.T) {
	assert.Nil(t, ListEnv("DD_RUM_TEST_LIST"))
	t.Setenv("DD_RUM_TEST_LIST", "a.com, ,b.com:b3|datadog,")
	assert.Equal(t, []string{"a.com", "b.com:b3|datadog"}, ListEnv("DD_RUM_TEST_LIST"))
}
