// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracing

import (
	"regexp"
)

// hostRgx captures what is between the first "://" and the next "/", ":",
// "?", "#" or whitespace. The second group is the remainder after an optional
// port.
var hostRgx = regexp.MustCompile(`^[^\s]*?://([^:/?#\s]+)(?::[0-9]*)?([^\s]*)`)

// ParseHost returns the hostname of rawURL, without the port. The second
// return value is false if no host could be found, e.g. when the scheme
// separator is missing.
func ParseHost(rawURL string) (string, bool) {
	host, _, ok := ParseHostPath(rawURL)
	return host, ok
}

// ParseHostPath is like ParseHost but also returns everything following the
// host and port: the path, query and fragment.
func ParseHostPath(rawURL string) (host, path string, ok bool) {
	m := hostRgx.FindStringSubmatch(rawURL)
	if m == nil || m[1] == "" {
		return "", "", false
	}
	return m[1], m[2], true
}
