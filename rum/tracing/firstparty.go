// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracing

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/DataDog/dd-rum-go/internal/log"
)

// PropagatorType is a standard way of encoding trace and span identifiers
// into request headers.
type PropagatorType int

const (
	// Datadog propagates using the x-datadog-* headers.
	Datadog PropagatorType = iota
	// B3 propagates using the single b3 header.
	B3
	// B3Multi propagates using the X-B3-* headers.
	B3Multi
	// TraceContext propagates using the W3C traceparent header.
	TraceContext

	numPropagatorTypes
)

// ErrInvalidPropagatorType is returned when parsing an unknown propagator name.
var ErrInvalidPropagatorType = errors.New("invalid propagator type")

func (p PropagatorType) String() string {
	switch p {
	case Datadog:
		return "datadog"
	case B3:
		return "b3"
	case B3Multi:
		return "b3multi"
	case TraceContext:
		return "tracecontext"
	default:
		return fmt.Sprintf("PropagatorType(%d)", int(p))
	}
}

// ParsePropagatorType returns the PropagatorType named by s. Matching is
// case-insensitive.
func ParsePropagatorType(s string) (PropagatorType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "datadog":
		return Datadog, nil
	case "b3":
		return B3, nil
	case "b3multi":
		return B3Multi, nil
	case "tracecontext":
		return TraceContext, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPropagatorType, s)
	}
}

// FirstPartyHost declares a destination whose requests should be traced, and
// the propagation formats to use for it.
//
// Match is a literal host, optionally followed by a path prefix. It also
// matches any subdomain of the host: "example.com" matches "api.example.com"
// but not "myexample.com".
type FirstPartyHost struct {
	Match           string           `mapstructure:"match"`
	PropagatorTypes []PropagatorType `mapstructure:"propagatorTypes"`
}

// FirstPartyHostsFromList returns first party hosts which propagate using
// the Datadog and W3C trace context formats.
func FirstPartyHostsFromList(hosts []string) []FirstPartyHost {
	fph := make([]FirstPartyHost, 0, len(hosts))
	for _, h := range hosts {
		fph = append(fph, FirstPartyHost{
			Match:           h,
			PropagatorTypes: []PropagatorType{Datadog, TraceContext},
		})
	}
	return fph
}

// noMatch never matches anything.
var noMatch = regexp.MustCompile(`a^`)

// HostMatcher reports which propagation formats apply to a destination. It
// is read-only once compiled and safe for concurrent use.
type HostMatcher struct {
	regex [numPropagatorTypes]*regexp.Regexp
}

// Compile builds a HostMatcher out of hosts. It never fails: invalid patterns
// are reported as warnings and the affected format matches nothing.
func Compile(hosts []FirstPartyHost) *HostMatcher {
	var patterns [numPropagatorTypes][]string
	for _, h := range hosts {
		match := strings.TrimSpace(h.Match)
		if match == "" {
			log.Warn("Ignoring empty first party host.")
			continue
		}
		for _, p := range h.PropagatorTypes {
			if p < 0 || p >= numPropagatorTypes {
				log.Warn("Ignoring unknown propagator type %v for first party host %q.", p, match)
				continue
			}
			patterns[p] = append(patterns[p], match)
		}
	}
	m := new(HostMatcher)
	for p := range m.regex {
		m.regex[p] = compileHosts(patterns[p])
	}
	return m
}

// compileHosts returns a regular expression matching any of hosts, their
// subdomains, and anything past a path boundary. Hostnames are compared
// case-insensitively.
func compileHosts(hosts []string) *regexp.Regexp {
	if len(hosts) == 0 {
		return noMatch
	}
	quoted := make([]string, len(hosts))
	for i, h := range hosts {
		quoted[i] = regexp.QuoteMeta(h)
	}
	expr := `(?i)^(?:[^/?#]*\.)?(?:` + strings.Join(quoted, "|") + `)(?:[/?#]|$)`
	re, err := regexp.Compile(expr)
	if err != nil {
		log.Warn("Invalid first party hosts list %q: %v. Regular expressions are not allowed.", hosts, err)
		return noMatch
	}
	return re
}

// Match returns every propagation format whose hosts accept target. Target is
// a hostname, optionally followed by the request path and query. It returns
// nil when nothing matches.
func (m *HostMatcher) Match(target string) []PropagatorType {
	if m == nil || target == "" {
		return nil
	}
	var matched []PropagatorType
	for p, re := range m.regex {
		if re != nil && re.MatchString(target) {
			matched = append(matched, PropagatorType(p))
		}
	}
	return matched
}
