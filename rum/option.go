// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package rum

import (
	"math"
	"strconv"
	"strings"

	"github.com/DataDog/dd-rum-go/internal"
	"github.com/DataDog/dd-rum-go/internal/log"
	"github.com/DataDog/dd-rum-go/rum/buffer"
	"github.com/DataDog/dd-rum-go/rum/resource"
	"github.com/DataDog/dd-rum-go/rum/tracing"
)

// DefaultSamplingRate is the percentage of first party requests sampled when
// nothing else is configured.
const DefaultSamplingRate = 20.0

// config holds the session configuration.
type config struct {
	// firstPartyHosts lists the destinations which receive tracing headers.
	firstPartyHosts []tracing.FirstPartyHost

	// samplingRate is the percentage of first party requests which are
	// sampled, in [0, 100].
	samplingRate float64

	// traceRateLimit caps the number of sampled requests per second. A
	// negative value disables the cap.
	traceRateLimit float64

	// trackResources enables resource tracking. Requests made through a
	// session with tracking disabled are left untouched.
	trackResources bool

	// sink receives the reported resources. When nil, calls are buffered
	// until (*Session).SetSink is called.
	sink resource.Sink

	// mappers are run on every resource before it is reported.
	mappers []resource.Mapper

	// filterDevResources drops requests made to local development servers.
	filterDevResources bool

	// statsdAddr is the DogStatsD address health metrics are sent to. When
	// empty, metrics are discarded.
	statsdAddr string

	// statsd, when set, is used instead of a client dialing statsdAddr.
	statsd internal.StatsdClient

	// configFile is the path of a JSON or YAML configuration file.
	configFile string

	// bufferSize is the number of calls buffered before a sink is set.
	bufferSize int
}

// StartOption represents a function that can be provided as a parameter to Start.
type StartOption func(*config)

// defaults sets the default values for a config.
func defaults(c *config) {
	c.samplingRate = DefaultSamplingRate
	c.traceRateLimit = -1
	c.trackResources = true
	c.filterDevResources = true
	c.bufferSize = buffer.DefaultSize
}

// loadEnv overrides c with the values found in the environment.
func loadEnv(c *config) {
	c.samplingRate = internal.FloatEnv("DD_RUM_RESOURCE_TRACING_SAMPLE_RATE", c.samplingRate)
	c.traceRateLimit = internal.FloatEnv("DD_RUM_TRACE_RATE_LIMIT", c.traceRateLimit)
	c.trackResources = internal.BoolEnv("DD_RUM_TRACKING_ENABLED", c.trackResources)
	c.statsdAddr = internal.StringEnv("DD_DOGSTATSD_ADDR", c.statsdAddr)
	c.configFile = internal.StringEnv("DD_RUM_CONFIG_FILE", c.configFile)
	if hosts := internal.ListEnv("DD_RUM_FIRST_PARTY_HOSTS"); len(hosts) > 0 {
		c.firstPartyHosts = ParseFirstPartyHosts(hosts)
	}
	if v, ok := internal.LookupEnv("DD_RUM_LOG_LEVEL"); ok {
		if lvl, ok := log.ParseLevel(v); ok {
			log.SetLevel(lvl)
		} else {
			log.Warn("Unknown value %q for DD_RUM_LOG_LEVEL, ignoring it.", v)
		}
	}
}

// ParseFirstPartyHosts parses entries of the form "host[:format|format...]".
// Entries without formats, or whose suffix is not a list of known formats,
// propagate using the Datadog and W3C trace context formats. Ports are not
// part of matching: "localhost:8080" matches every port of localhost.
func ParseFirstPartyHosts(entries []string) []tracing.FirstPartyHost {
	hosts := make([]tracing.FirstPartyHost, 0, len(entries))
	for _, e := range entries {
		match, formats, _ := strings.Cut(strings.TrimSpace(e), ":")
		if types, ok := parsePropagatorTypes(match, formats); ok {
			hosts = append(hosts, tracing.FirstPartyHost{Match: match, PropagatorTypes: types})
			continue
		}
		hosts = append(hosts, tracing.FirstPartyHostsFromList([]string{match})...)
	}
	return hosts
}

// parsePropagatorTypes parses a "format|format..." list. It returns false
// when formats is empty, a port, or holds an unknown format.
func parsePropagatorTypes(host, formats string) ([]tracing.PropagatorType, bool) {
	formats = strings.TrimSpace(formats)
	if formats == "" {
		return nil, false
	}
	if _, err := strconv.ParseUint(formats, 10, 16); err == nil {
		log.Debug("Ignoring port %s of first party host %q.", formats, host)
		return nil, false
	}
	var types []tracing.PropagatorType
	for _, f := range strings.Split(formats, "|") {
		p, err := tracing.ParsePropagatorType(f)
		if err != nil {
			log.Warn("Ignoring formats %q of first party host %q, using datadog and tracecontext: %v", formats, host, err)
			return nil, false
		}
		types = append(types, p)
	}
	return types, true
}

// WithFirstPartyHosts sets the destinations which receive tracing headers,
// replacing any previously configured ones. Hosts are matched without their
// port.
func WithFirstPartyHosts(hosts ...tracing.FirstPartyHost) StartOption {
	return func(c *config) {
		c.firstPartyHosts = append([]tracing.FirstPartyHost(nil), hosts...)
	}
}

// WithSamplingRate sets the percentage, in [0, 100], of first party requests
// which are sampled.
func WithSamplingRate(rate float64) StartOption {
	return func(c *config) {
		c.samplingRate = rate
	}
}

// WithTraceRateLimit caps the number of sampled requests per second.
// Negative values disable the cap, which is the default.
func WithTraceRateLimit(perSecond float64) StartOption {
	return func(c *config) {
		if math.IsNaN(perSecond) {
			return
		}
		c.traceRateLimit = perSecond
	}
}

// WithResourceTracking enables or disables resource tracking.
func WithResourceTracking(enabled bool) StartOption {
	return func(c *config) {
		c.trackResources = enabled
	}
}

// WithSink sets the sink receiving the reported resources.
func WithSink(s resource.Sink) StartOption {
	return func(c *config) {
		c.sink = s
	}
}

// WithResourceMappers appends mappers run on every resource before it is
// reported.
func WithResourceMappers(mappers ...resource.Mapper) StartOption {
	return func(c *config) {
		c.mappers = append(c.mappers, mappers...)
	}
}

// WithDevResourceFilter enables or disables dropping requests made to local
// development servers. It is enabled by default.
func WithDevResourceFilter(enabled bool) StartOption {
	return func(c *config) {
		c.filterDevResources = enabled
	}
}

// WithStatsdAddr sets the DogStatsD address health metrics are sent to.
func WithStatsdAddr(addr string) StartOption {
	return func(c *config) {
		c.statsdAddr = addr
	}
}

// WithStatsdClient sets the client receiving health metrics. The session
// does not close it.
func WithStatsdClient(client internal.StatsdClient) StartOption {
	return func(c *config) {
		c.statsd = client
	}
}

// WithConfigFile loads the JSON or YAML configuration file at path. Options
// passed to Start take precedence over the file.
func WithConfigFile(path string) StartOption {
	return func(c *config) {
		c.configFile = path
	}
}

// WithBufferSize sets how many calls are buffered until a sink is set.
func WithBufferSize(n int) StartOption {
	return func(c *config) {
		c.bufferSize = n
	}
}

// newConfig builds the session configuration out of defaults, the
// environment, the configuration file and opts, in that order.
func newConfig(opts ...StartOption) (*config, error) {
	c := new(config)
	defaults(c)
	loadEnv(c)

	// the file path may itself come from opts
	probe := &config{configFile: c.configFile}
	for _, fn := range opts {
		fn(probe)
	}
	if probe.configFile != "" {
		fc, err := loadConfigFile(probe.configFile)
		if err != nil {
			return nil, err
		}
		fc.apply(c)
	}
	for _, fn := range opts {
		fn(c)
	}
	return c, nil
}
