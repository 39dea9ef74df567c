//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

package skim

import (
	"context"
	"fmt"

	"github.com/tonyzdev/skim/drill"
	"github.com/tonyzdev/skim/tool"
	"github.com/tonyzdev/skim/tool/function"
)

// drillRequest represents the input for the drill operation.
type drillRequest struct {
	FilePath string `json:"file_path" jsonschema:"description=The saved file to read: a cache path, file name, or unique name fragment."`
	Query    string `json:"query,omitempty" jsonschema:"description=Optional query. JSON/YAML: a path like '.users[0].name'. CSV: 'cols:name,age' and/or a row range. Text: 'head:20', 'tail:20' or '1-10'. Empty returns a preview."`
}

// drillResponse represents the output from the drill operation.
type drillResponse struct {
	Content string `json:"content"`
	Message string `json:"message,omitempty"`
}

// skimDrill extracts a sub-view from a stored artifact.
func (s *skimToolSet) skimDrill(ctx context.Context, req drillRequest) (drillResponse, error) {
	if req.FilePath == "" {
		return drillResponse{
			Message: "Error: file_path cannot be empty",
		}, fmt.Errorf("file_path cannot be empty")
	}
	content, err := drill.Drill(ctx, s.pipeline.Store(), req.FilePath, req.Query)
	if err != nil {
		return drillResponse{
			Message: fmt.Sprintf("Error: %v", err),
		}, err
	}
	return drillResponse{Content: content}, nil
}

// drillTool returns a callable tool for viewing saved artifacts.
func (s *skimToolSet) drillTool() tool.CallableTool {
	return function.NewFunctionTool(
		s.skimDrill,
		function.WithName("skim_drill"),
		function.WithDescription("Views specific content from a file saved by "+
			"'skim_exec'. For JSON and YAML files the query is a path like "+
			"'.users[0].name'; for CSV files use 'cols:name,age' or a row "+
			"range like '1-20'; for text files use 'head:20', 'tail:20' or "+
			"'1-10'. Without a query, returns a bounded preview."),
	)
}
