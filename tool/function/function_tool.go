//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

// Package function provides function-based tool implementations: any typed
// Go function can be wrapped as a tool that is called with JSON arguments.
package function

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	itool "github.com/tonyzdev/skim/internal/tool"
	"github.com/tonyzdev/skim/log"
	"github.com/tonyzdev/skim/tool"
)

// FunctionTool implements the CallableTool interface for executing
// functions with arguments.
type FunctionTool[I, O any] struct {
	name         string
	description  string
	inputSchema  *tool.Schema
	outputSchema *tool.Schema
	fn           func(context.Context, I) (O, error)
}

// Option is a function that configures a FunctionTool.
type Option func(*functionToolOptions)

type functionToolOptions struct {
	name        string
	description string
}

// WithName sets the name of the function tool.
func WithName(name string) Option {
	return func(opts *functionToolOptions) {
		opts.name = name
	}
}

// WithDescription sets the description of the function tool.
func WithDescription(description string) Option {
	return func(opts *functionToolOptions) {
		opts.description = description
	}
}

// NewFunctionTool creates a new FunctionTool wrapping fn. Input and output
// schemas are generated from the function's request and response types.
func NewFunctionTool[I, O any](
	fn func(context.Context, I) (O, error), opts ...Option,
) *FunctionTool[I, O] {
	options := &functionToolOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.name == "" {
		log.Warnf("FunctionTool: name is empty")
	}
	if options.description == "" {
		log.Warnf("FunctionTool: description is empty")
	}

	var (
		emptyI I
		emptyO O
	)
	return &FunctionTool[I, O]{
		name:         options.name,
		description:  options.description,
		fn:           fn,
		inputSchema:  itool.GenerateJSONSchema(reflect.TypeOf(emptyI)),
		outputSchema: itool.GenerateJSONSchema(reflect.TypeOf(emptyO)),
	}
}

// Call executes the wrapped function with JSON arguments. Empty arguments
// are treated as the zero request.
func (t *FunctionTool[I, O]) Call(ctx context.Context, jsonArgs []byte) (any, error) {
	var input I
	if len(jsonArgs) > 0 {
		if err := json.Unmarshal(jsonArgs, &input); err != nil {
			return nil, fmt.Errorf("%s: unmarshalling arguments: %w", t.name, err)
		}
	}
	return t.fn(ctx, input)
}

// Declaration returns the tool's declaration.
func (t *FunctionTool[I, O]) Declaration() *tool.Declaration {
	return &tool.Declaration{
		Name:         t.name,
		Description:  t.description,
		InputSchema:  t.inputSchema,
		OutputSchema: t.outputSchema,
	}
}
