// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DataDog/dd-rum-go/rum/tracing"
)

func newHeadersCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "headers <url>",
		Short: "Print the tracing headers a request to url would carry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := startSession(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Stop()

			attrs := s.Decide(args[0])
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# strategy: %s\n", attrs.Strategy)
			for _, h := range tracing.Headers(attrs) {
				fmt.Fprintf(out, "%s: %s\n", h.Name, h.Value)
			}
			fmt.Fprintf(out, "%s: %s\n", tracing.OriginHeader, tracing.OriginRUM)
			return nil
		},
	}
}
