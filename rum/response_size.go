// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package rum

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/DataDog/dd-rum-go/internal/log"
	"github.com/DataDog/dd-rum-go/rum/resource"
)

// BytesRead is a response payload known only by its length, such as a body
// which was streamed to the application.
type BytesRead int64

// Size returns the number of bytes.
func (b BytesRead) Size() int64 { return int64(b) }

// ResponseSize returns the size in bytes of a response. A valid
// Content-Length header wins. Otherwise the size is measured on payload:
// strings and byte slices by their length, values with a Size() int64 or
// Len() int method through it, and maps and slices by the length of their
// JSON encoding. It returns resource.UnknownSize for nil or unsupported
// payloads, and when measuring fails.
func ResponseSize(payload interface{}, header http.Header) (size int64) {
	if n, ok := contentLength(header); ok {
		return n
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("Couldn't get resource size, because an error occurred: %v", r)
			size = resource.UnknownSize
		}
	}()
	switch p := payload.(type) {
	case nil:
		return resource.UnknownSize
	case string:
		return int64(len(p))
	case []byte:
		return int64(len(p))
	case json.RawMessage:
		return int64(len(p))
	case interface{ Size() int64 }:
		return nonNegative(p.Size())
	case interface{ Len() int }:
		return nonNegative(int64(p.Len()))
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(p)
		if err != nil {
			log.Error("Couldn't get resource size of %T payload: %v", p, err)
			return resource.UnknownSize
		}
		return int64(len(b))
	default:
		log.Debug("Couldn't get resource size of unsupported payload type %T.", payload)
		return resource.UnknownSize
	}
}

func contentLength(h http.Header) (int64, bool) {
	v := strings.TrimSpace(h.Get("Content-Length"))
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return resource.UnknownSize
	}
	return n
}
