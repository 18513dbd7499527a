// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package rum

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/DataDog/dd-rum-go/internal/log"
	"github.com/DataDog/dd-rum-go/rum/tracing"
)

// ErrInvalidConfigFile is returned when a configuration file can't be used.
var ErrInvalidConfigFile = errors.New("invalid configuration file")

// fileConfig is the "configuration" object of a configuration file.
type fileConfig struct {
	ResourceTracingSamplingRate *float64                 `mapstructure:"resourceTracingSamplingRate"`
	FirstPartyHosts             []tracing.FirstPartyHost `mapstructure:"firstPartyHosts"`
	TrackResources              *bool                    `mapstructure:"trackResources"`
	Verbosity                   string                   `mapstructure:"verbosity"`
}

// loadConfigFile reads the configuration file at path. Files ending in .yaml
// or .yml are parsed as YAML, anything else as JSON.
func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfigFile, err)
	}
	var doc map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfigFile, path, err)
	}
	return decodeConfig(doc)
}

// decodeConfig decodes the "configuration" object of doc.
func decodeConfig(doc map[string]interface{}) (*fileConfig, error) {
	raw, ok := doc["configuration"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: missing \"configuration\" object", ErrInvalidConfigFile)
	}
	fc := new(fileConfig)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToFirstPartyHostHook,
			stringToPropagatorTypeHook,
		),
		WeaklyTypedInput: true,
		Result:           fc,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfigFile, err)
	}
	return fc, nil
}

var (
	propagatorTypeType = reflect.TypeOf(tracing.PropagatorType(0))
	firstPartyHostType = reflect.TypeOf(tracing.FirstPartyHost{})
)

// stringToPropagatorTypeHook decodes propagator names such as "tracecontext".
func stringToPropagatorTypeHook(f, t reflect.Type, data interface{}) (interface{}, error) {
	if f.Kind() != reflect.String || t != propagatorTypeType {
		return data, nil
	}
	return tracing.ParsePropagatorType(data.(string))
}

// stringToFirstPartyHostHook accepts plain host names in place of
// {match, propagatorTypes} objects.
func stringToFirstPartyHostHook(f, t reflect.Type, data interface{}) (interface{}, error) {
	if f.Kind() != reflect.String || t != firstPartyHostType {
		return data, nil
	}
	return tracing.FirstPartyHostsFromList([]string{data.(string)})[0], nil
}

// apply overrides c with the values set in the file.
func (fc *fileConfig) apply(c *config) {
	if fc.ResourceTracingSamplingRate != nil {
		c.samplingRate = *fc.ResourceTracingSamplingRate
	}
	if fc.FirstPartyHosts != nil {
		c.firstPartyHosts = fc.FirstPartyHosts
	}
	if fc.TrackResources != nil {
		c.trackResources = *fc.TrackResources
	}
	if fc.Verbosity != "" {
		if lvl, ok := log.ParseLevel(fc.Verbosity); ok {
			log.SetLevel(lvl)
		} else {
			log.Warn("Unknown verbosity %q in configuration file, ignoring it.", fc.Verbosity)
		}
	}
}
