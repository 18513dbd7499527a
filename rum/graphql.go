// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package rum

import (
	"encoding/json"
	"fmt"

	"github.com/DataDog/dd-rum-go/rum/resource"
	"github.com/DataDog/dd-rum-go/rum/tracing"
)

// Request headers describing a GraphQL operation. They are removed from the
// request before it is sent and reported as resource attributes instead.
const (
	GraphQLOperationTypeHeader = "_dd-graph-ql-operation-type"
	GraphQLOperationNameHeader = "_dd-graph-ql-operation-name"
	GraphQLVariablesHeader     = "_dd-graph-ql-variables"
)

// SetGraphQLHeaders describes a GraphQL operation on w. opType is one of
// "query", "mutation" or "subscription". variables is JSON encoded and may be
// nil.
func SetGraphQLHeaders(w tracing.TextMapWriter, opType, opName string, variables interface{}) error {
	if opType == "" {
		return nil
	}
	w.Set(GraphQLOperationTypeHeader, opType)
	if opName != "" {
		w.Set(GraphQLOperationNameHeader, opName)
	}
	if variables != nil {
		b, err := json.Marshal(variables)
		if err != nil {
			return fmt.Errorf("encoding GraphQL variables: %w", err)
		}
		w.Set(GraphQLVariablesHeader, string(b))
	}
	return nil
}

// extractGraphQL removes the GraphQL headers from r and returns the operation
// they describe, or nil if there is none.
func extractGraphQL(r tracing.TextMapReader) *resource.GraphQLAttributes {
	g := &resource.GraphQLAttributes{
		OperationType: r.Get(GraphQLOperationTypeHeader),
		OperationName: r.Get(GraphQLOperationNameHeader),
		Variables:     r.Get(GraphQLVariablesHeader),
	}
	r.Del(GraphQLOperationTypeHeader)
	r.Del(GraphQLOperationNameHeader)
	r.Del(GraphQLVariablesHeader)
	if g.OperationType == "" {
		return nil
	}
	return g
}
