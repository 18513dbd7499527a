// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DataDog/dd-rum-go/internal/version"
	"github.com/DataDog/dd-rum-go/rum"
)

type rootFlags struct {
	configFile      string
	samplingRate    float64
	firstPartyHosts []string
}

func newRootCmd() *cobra.Command {
	flags := new(rootFlags)
	cmd := &cobra.Command{
		Use:   "ddrum",
		Short: "Track HTTP resources and propagate traces like the RUM SDK",
		Long: `ddrum sends HTTP requests through a RUM session. First party hosts
receive distributed tracing headers and every request is reported as a
resource, printed as one JSON object per line.`,
		Version:       version.Tag,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "JSON or YAML configuration file")
	pf.Float64Var(&flags.samplingRate, "sampling-rate", rum.DefaultSamplingRate, "percentage of first party requests sampled")
	pf.StringSliceVar(&flags.firstPartyHosts, "first-party-host", nil, "first party host, as host[:format|format]; ports are not matched")

	cmd.AddCommand(newHeadersCmd(flags), newGetCmd(flags))
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// startSession starts a session reporting resources to the command output.
// Flags set on the command line take precedence over the configuration file.
func startSession(cmd *cobra.Command, flags *rootFlags) (*rum.Session, error) {
	opts := []rum.StartOption{rum.WithSink(newPrintSink(cmd.OutOrStdout()))}
	if flags.configFile != "" {
		opts = append(opts, rum.WithConfigFile(flags.configFile))
	}
	if cmd.Flags().Changed("sampling-rate") {
		opts = append(opts, rum.WithSamplingRate(flags.samplingRate))
	}
	if len(flags.firstPartyHosts) > 0 {
		opts = append(opts, rum.WithFirstPartyHosts(rum.ParseFirstPartyHosts(flags.firstPartyHosts)...))
	}
	return rum.Start(opts...)
}
