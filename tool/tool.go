//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

// Package tool provides the tool interfaces exposed to calling agents.
package tool

import "context"

// Tool represents anything that can report its declaration.
type Tool interface {
	// Declaration returns the tool's metadata and schemas.
	Declaration() *Declaration
}

// CallableTool is a tool that can be executed with JSON arguments.
type CallableTool interface {
	Tool

	// Call executes the tool with JSON-encoded arguments and returns the
	// result.
	Call(ctx context.Context, jsonArgs []byte) (any, error)
}

// Declaration describes a tool to the calling agent.
type Declaration struct {
	// Name is the tool identifier, matching ^[a-zA-Z0-9_-]+$.
	Name string `json:"name"`
	// Description explains what the tool does and how to use it.
	Description string `json:"description"`
	// InputSchema describes the JSON arguments.
	InputSchema *Schema `json:"input_schema,omitempty"`
	// OutputSchema describes the JSON result.
	OutputSchema *Schema `json:"output_schema,omitempty"`
}

// Schema is a JSON schema fragment describing tool input or output.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Default     any                `json:"default,omitempty"`
}
