//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

package tool

import "context"

// ToolSet defines an interface for managing a set of tools.
type ToolSet interface {
	// Tools returns the tools available in the set based on the provided
	// context.
	Tools(context.Context) []CallableTool

	// Close releases any resources held by the ToolSet.
	Close() error

	// Name returns the name of the ToolSet for identification.
	Name() string
}

// FilterFunc filters tools by their declaration.
type FilterFunc func(ctx context.Context, t Tool) bool

// FilterToolSet creates a ToolSet view that keeps only the tools accepted
// by filter.
func FilterToolSet(toolset ToolSet, filter FilterFunc) ToolSet {
	return &filteredToolSet{original: toolset, filter: filter}
}

type filteredToolSet struct {
	original ToolSet
	filter   FilterFunc
}

// Tools returns filtered tools from the original ToolSet.
func (f *filteredToolSet) Tools(ctx context.Context) []CallableTool {
	tools := f.original.Tools(ctx)
	if f.filter == nil {
		return tools
	}
	var result []CallableTool
	for _, t := range tools {
		if f.filter(ctx, t) {
			result = append(result, t)
		}
	}
	return result
}

// Close releases the original ToolSet.
func (f *filteredToolSet) Close() error {
	return f.original.Close()
}

// Name returns the original ToolSet's name.
func (f *filteredToolSet) Name() string {
	return f.original.Name()
}
