//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

// Package telemetry provides tracing helpers shared across skim packages.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry service constants.
const (
	ServiceName    = "skim"
	InstrumentName = "github.com/tonyzdev/skim"

	OperationSummarize = "summarize"
	OperationDrill     = "drill"
	OperationExec      = "exec"
)

// Attribute keys attached to skim spans.
const (
	KeyFormat   = attribute.Key("skim.format")
	KeyBytes    = attribute.Key("skim.bytes")
	KeyItems    = attribute.Key("skim.items")
	KeyArtifact = attribute.Key("skim.artifact")
	KeyQuery    = attribute.Key("skim.query")
	KeyCommand  = attribute.Key("skim.command")
	KeyExitCode = attribute.Key("skim.exit_code")
)

// Tracer is the tracer used by all skim spans. It resolves against the
// globally registered tracer provider, so callers that never install one get
// no-op spans.
var Tracer = otel.Tracer(InstrumentName)

// StartSpan starts a span for the given skim operation.
func StartSpan(
	ctx context.Context, operation string, attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	return Tracer.Start(
		ctx, operation, trace.WithAttributes(attrs...),
	)
}

// EndSpan records err (if any) on span and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
