// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package main

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/DataDog/dd-rum-go/rum/resource"
)

// event is the JSON line printed for every sink call.
type event struct {
	Event       string                 `json:"event"`
	Key         string                 `json:"key"`
	Method      string                 `json:"method,omitempty"`
	URL         string                 `json:"url,omitempty"`
	StatusCode  int                    `json:"status_code,omitempty"`
	Kind        resource.Kind          `json:"kind,omitempty"`
	Size        *int64                 `json:"size,omitempty"`
	TimestampMs int64                  `json:"timestamp_ms"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
}

// printSink writes the reported resources to w, one JSON object per line.
type printSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newPrintSink(w io.Writer) *printSink {
	return &printSink{enc: json.NewEncoder(w)}
}

func (p *printSink) StartResource(_ context.Context, key, method, url string, attrs map[string]interface{}, timestampMs int64) error {
	return p.print(event{Event: "start", Key: key, Method: method, URL: url, Attributes: attrs, TimestampMs: timestampMs})
}

func (p *printSink) StopResource(_ context.Context, key string, statusCode int, kind resource.Kind, size int64, attrs map[string]interface{}, timestampMs int64) error {
	return p.print(event{Event: "stop", Key: key, StatusCode: statusCode, Kind: kind, Size: &size, Attributes: attrs, TimestampMs: timestampMs})
}

func (p *printSink) print(e event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enc.Encode(e)
}
