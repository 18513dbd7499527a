// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package resource

import "regexp"

var devResourceBlocklist = []*regexp.Regexp{
	// Expo dev server log forwarding, e.g. http://192.168.1.20:8081/logs.
	// Reporting these would loop once debug logging is enabled.
	regexp.MustCompile(`^http://((10|172|192)\.[0-9]+\.[0-9]+\.[0-9]+|localhost):[0-9]+/logs$`),
	// Packager symbolication calls, made on every reload in dev mode.
	regexp.MustCompile(`^http://localhost:[0-9]+/symbolicate$`),
}

// DevResourceFilter is a Mapper dropping requests made to local development
// servers by the SDK tooling itself.
func DevResourceFilter(r Resource) (Resource, error) {
	for _, re := range devResourceBlocklist {
		if re.MatchString(r.Request.URL) {
			return r, ErrDropped
		}
	}
	return r, nil
}
