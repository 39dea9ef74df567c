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

	"github.com/tonyzdev/skim/executor"
	"github.com/tonyzdev/skim/tool"
	"github.com/tonyzdev/skim/tool/function"
)

// execRequest represents the input for the exec operation.
type execRequest struct {
	Command string `json:"command" jsonschema:"description=The shell command to execute."`
}

// execResponse represents the output from the exec operation.
type execResponse struct {
	// Output is the full command output when small, or the schema summary
	// when the output exceeded the threshold.
	Output       string `json:"output"`
	ExitCode     int    `json:"exit_code"`
	ArtifactPath string `json:"artifact_path,omitempty"`
	Stats        string `json:"stats,omitempty"`
	Message      string `json:"message,omitempty"`
}

// skimExec runs a command and summarizes its output.
func (s *skimToolSet) skimExec(ctx context.Context, req execRequest) (execResponse, error) {
	if req.Command == "" {
		return execResponse{
			Message: "Error: command cannot be empty",
		}, fmt.Errorf("command cannot be empty")
	}

	result, err := s.executor.Run(ctx, req.Command)
	if err != nil {
		return execResponse{
			Message: fmt.Sprintf("Error: %v", err),
		}, fmt.Errorf("executing %q: %w", executor.Describe(req.Command), err)
	}

	summary, err := s.pipeline.Summarize(ctx, []byte(result.Output))
	if err != nil {
		return execResponse{
			ExitCode: result.ExitCode,
			Message:  fmt.Sprintf("Error: %v", err),
		}, fmt.Errorf("summarizing output of %q: %w",
			executor.Describe(req.Command), err)
	}

	rsp := execResponse{
		Output:   summary.Text(),
		ExitCode: result.ExitCode,
	}
	if !summary.Inline {
		rsp.ArtifactPath = summary.ArtifactPath
		rsp.Stats = summary.Stats()
	}
	return rsp, nil
}

// execTool returns a callable tool for running commands.
func (s *skimToolSet) execTool() tool.CallableTool {
	return function.NewFunctionTool(
		s.skimExec,
		function.WithName("skim_exec"),
		function.WithDescription("Executes a shell command and returns the full "+
			"output when it is small. Large output is saved to the cache "+
			"directory and replaced by a compact structure summary with the "+
			"saved file path; use 'skim_drill' to view specific content from "+
			"the saved file."),
	)
}
