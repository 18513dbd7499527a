// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package http_test

import (
	"log"
	"net/http"

	httptrace "github.com/DataDog/dd-rum-go/contrib/net/http"
	"github.com/DataDog/dd-rum-go/rum"
	"github.com/DataDog/dd-rum-go/rum/tracing"
)

func Example() {
	s, err := rum.Start(
		rum.WithFirstPartyHosts(tracing.FirstPartyHostsFromList([]string{"api.example.com"})...),
		rum.WithSamplingRate(50),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Stop()

	client := httptrace.WrapClient(&http.Client{}, s)
	resp, err := client.Get("https://api.example.com/v1/items")
	if err != nil {
		return
	}
	defer resp.Body.Close()
}
