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
	"time"

	"github.com/tonyzdev/skim/tool"
	"github.com/tonyzdev/skim/tool/function"
)

// cleanRequest represents the input for the clean operation.
type cleanRequest struct {
	OlderThanHours int `json:"older_than_hours,omitempty" jsonschema:"description=Only delete files older than this many hours. 0 deletes all files."`
}

// cleanResponse represents the output from the clean operation.
type cleanResponse struct {
	Deleted int    `json:"deleted"`
	Message string `json:"message"`
}

// skimClean evicts cached files older than the requested age.
func (s *skimToolSet) skimClean(_ context.Context, req cleanRequest) (cleanResponse, error) {
	if req.OlderThanHours < 0 {
		return cleanResponse{
			Message: "Error: older_than_hours cannot be negative",
		}, fmt.Errorf("older_than_hours cannot be negative")
	}
	deleted, err := s.pipeline.Store().Evict(
		time.Duration(req.OlderThanHours) * time.Hour)
	if err != nil {
		return cleanResponse{
			Deleted: deleted,
			Message: fmt.Sprintf("Error: %v", err),
		}, err
	}
	return cleanResponse{
		Deleted: deleted,
		Message: fmt.Sprintf("Deleted %d file(s).", deleted),
	}, nil
}

// cleanTool returns a callable tool for cleaning the cache.
func (s *skimToolSet) cleanTool() tool.CallableTool {
	return function.NewFunctionTool(
		s.skimClean,
		function.WithName("skim_clean"),
		function.WithDescription("Deletes files saved by 'skim_exec'. With "+
			"'older_than_hours' set, only files older than that many hours "+
			"are deleted; 0 deletes all cached files."),
	)
}
