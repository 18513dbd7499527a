// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package tracing decides whether an outgoing request takes part in a
// distributed trace, and encodes the decision into request headers.
//
// A HostMatcher is compiled once from the configured first party hosts. A
// Decider combines it with a sampling rate to produce Attributes for each
// request, which Headers and Inject turn into the Datadog, W3C trace context
// or B3 propagation headers:
//
//	m := tracing.Compile(tracing.FirstPartyHostsFromList([]string{"example.com"}))
//	d := tracing.NewDecider(m, 20)
//	attrs := d.Decide("https://api.example.com/users")
//	tracing.Inject(attrs, tracing.HTTPHeadersCarrier(req.Header))
package tracing
