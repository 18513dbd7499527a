// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package resource

import "github.com/DataDog/dd-rum-go/rum/tracing"

// maxCloneDepth bounds how deep Clone copies nested context values. Values
// nested deeper are shared between the clone and the original, which also
// stops cyclic contexts from looping forever.
const maxCloneDepth = 4

// Clone returns a copy of r which mappers can modify without affecting r.
func (r Resource) Clone() Resource {
	c := r
	if r.Tracing.Propagators != nil {
		c.Tracing.Propagators = append([]tracing.PropagatorType(nil), r.Tracing.Propagators...)
	}
	if r.Timings.FirstByte != nil {
		fb := *r.Timings.FirstByte
		c.Timings.FirstByte = &fb
	}
	if r.GraphQL != nil {
		g := *r.GraphQL
		c.GraphQL = &g
	}
	if r.Context != nil {
		c.Context = cloneMap(r.Context, 1)
	}
	return c
}

func cloneMap(m map[string]interface{}, depth int) map[string]interface{} {
	c := make(map[string]interface{}, len(m))
	for k, v := range m {
		c[k] = cloneValue(v, depth)
	}
	return c
}

func cloneValue(v interface{}, depth int) interface{} {
	if depth >= maxCloneDepth {
		return v
	}
	switch v := v.(type) {
	case map[string]interface{}:
		if v == nil {
			return v
		}
		return cloneMap(v, depth+1)
	case []interface{}:
		if v == nil {
			return v
		}
		c := make([]interface{}, len(v))
		for i, e := range v {
			c[i] = cloneValue(e, depth+1)
		}
		return c
	case map[string]string:
		if v == nil {
			return v
		}
		c := make(map[string]string, len(v))
		for k, e := range v {
			c[k] = e
		}
		return c
	case []string:
		if v == nil {
			return v
		}
		return append([]string(nil), v...)
	default:
		return v
	}
}
