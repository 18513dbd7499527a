// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package http

import (
	"net/http"

	"github.com/DataDog/dd-rum-go/rum"
	"github.com/DataDog/dd-rum-go/rum/resource"
)

type roundTripperConfig struct {
	before        RoundTripperBeforeFunc
	after         RoundTripperAfterFunc
	ignoreRequest func(*http.Request) bool
	kind          resource.Kind
}

// RoundTripperOption represents an option that can be passed to
// WrapRoundTripper and WrapClient.
type RoundTripperOption func(*roundTripperConfig)

func newRoundTripperConfig() *roundTripperConfig {
	return &roundTripperConfig{
		ignoreRequest: func(_ *http.Request) bool { return false },
		kind:          resource.KindNative,
	}
}

// A RoundTripperBeforeFunc can be used to add context to a tracked request
// before the http RoundTrip is made.
type RoundTripperBeforeFunc func(*http.Request, *rum.Request)

// A RoundTripperAfterFunc can be used to add context to a tracked request
// after the http RoundTrip is made. It is possible for the http Response to
// be nil.
type RoundTripperAfterFunc func(*http.Response, *rum.Request)

// WithBefore adds a RoundTripperBeforeFunc to the RoundTripper config.
func WithBefore(f RoundTripperBeforeFunc) RoundTripperOption {
	return func(cfg *roundTripperConfig) {
		cfg.before = f
	}
}

// WithAfter adds a RoundTripperAfterFunc to the RoundTripper config.
func WithAfter(f RoundTripperAfterFunc) RoundTripperOption {
	return func(cfg *roundTripperConfig) {
		cfg.after = f
	}
}

// WithIgnoreRequest holds the function to use for determining if the
// outgoing HTTP request should be left untouched and not reported.
func WithIgnoreRequest(f func(*http.Request) bool) RoundTripperOption {
	return func(cfg *roundTripperConfig) {
		if f != nil {
			cfg.ignoreRequest = f
		}
	}
}

// WithResourceKind sets the kind reported for requests made over the
// transport. It defaults to resource.KindNative.
func WithResourceKind(k resource.Kind) RoundTripperOption {
	return func(cfg *roundTripperConfig) {
		cfg.kind = k
	}
}
