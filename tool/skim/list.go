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

	"github.com/tonyzdev/skim/pipeline"
	"github.com/tonyzdev/skim/tool"
	"github.com/tonyzdev/skim/tool/function"
)

// listRequest represents the input for the list operation.
type listRequest struct {
	Pattern string `json:"pattern,omitempty" jsonschema:"description=Optional glob pattern to filter file names, e.g. '*.json'."`
}

// fileEntry describes one cached file.
type fileEntry struct {
	Name     string `json:"name"`
	Size     string `json:"size"`
	Modified string `json:"modified"`
}

// listResponse represents the output from the list operation.
type listResponse struct {
	Files   []fileEntry `json:"files"`
	Count   int         `json:"count"`
	Message string      `json:"message"`
}

// skimList lists cached files, newest first.
func (s *skimToolSet) skimList(_ context.Context, req listRequest) (listResponse, error) {
	artifacts, err := s.pipeline.Store().List(req.Pattern)
	if err != nil {
		return listResponse{
			Message: fmt.Sprintf("Error: %v", err),
		}, err
	}
	rsp := listResponse{Count: len(artifacts)}
	for _, a := range artifacts {
		rsp.Files = append(rsp.Files, fileEntry{
			Name:     a.Name,
			Size:     pipeline.HumanSize(a.Size),
			Modified: a.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	if rsp.Count == 0 {
		rsp.Message = "Cache is empty."
	} else {
		rsp.Message = fmt.Sprintf("Cached files (%d)", rsp.Count)
	}
	return rsp, nil
}

// listTool returns a callable tool for listing cached files.
func (s *skimToolSet) listTool() tool.CallableTool {
	return function.NewFunctionTool(
		s.skimList,
		function.WithName("skim_list"),
		function.WithDescription("Lists the files saved by 'skim_exec' with "+
			"their sizes and timestamps, newest first. An optional glob "+
			"pattern filters file names."),
	)
}
