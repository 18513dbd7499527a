// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Command ddrum sends HTTP requests the way an instrumented client does, and
// prints the propagation headers and the reported resources.
//
// Usage:
//
//	# Show the headers a request would carry
//	ddrum headers --first-party-host api.example.com:datadog https://api.example.com/v1
//
//	# Send a request and print the reported resource
//	ddrum get --config datadog-configuration.json https://api.example.com/v1
package main

func main() {
	Execute()
}
