//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

// Package skim provides the skim toolset: executing commands with
// schema-first capture of large outputs, drilling into stored artifacts,
// and listing or cleaning the artifact cache.
package skim

import (
	"context"
	"os"
	"time"

	"github.com/tonyzdev/skim/executor"
	"github.com/tonyzdev/skim/pipeline"
	"github.com/tonyzdev/skim/tool"
)

// ToolSetName identifies the skim toolset.
const ToolSetName = "skim"

// skimToolSet bundles the pipeline, store and executor behind the four
// skim tools.
type skimToolSet struct {
	projectRoot string
	cfg         pipeline.Config
	execTimeout time.Duration

	pipeline *pipeline.Pipeline
	executor *executor.Executor
	tools    []tool.CallableTool
}

// Option configures the skim toolset.
type Option func(*skimToolSet)

// WithProjectRoot sets the directory commands run in and the cache lives
// under. Defaults to the current working directory.
func WithProjectRoot(root string) Option {
	return func(s *skimToolSet) {
		if root != "" {
			s.projectRoot = root
		}
	}
}

// WithConfig sets the pipeline configuration.
func WithConfig(cfg pipeline.Config) Option {
	return func(s *skimToolSet) {
		s.cfg = cfg
	}
}

// WithExecTimeout sets the per-command execution timeout.
func WithExecTimeout(timeout time.Duration) Option {
	return func(s *skimToolSet) {
		if timeout > 0 {
			s.execTimeout = timeout
		}
	}
}

// NewToolSet creates the skim toolset.
func NewToolSet(opts ...Option) (tool.ToolSet, error) {
	s := &skimToolSet{
		cfg:         pipeline.DefaultConfig(),
		execTimeout: executor.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.projectRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		s.projectRoot = cwd
	}

	s.pipeline = pipeline.New(s.projectRoot, s.cfg)
	s.executor = executor.New(
		executor.WithWorkDir(s.projectRoot),
		executor.WithTimeout(s.execTimeout),
	)
	s.tools = []tool.CallableTool{
		s.execTool(),
		s.drillTool(),
		s.listTool(),
		s.cleanTool(),
	}
	return s, nil
}

// Tools returns the callable tools in the set.
func (s *skimToolSet) Tools(_ context.Context) []tool.CallableTool {
	return s.tools
}

// Close releases resources held by the toolset.
func (s *skimToolSet) Close() error {
	return nil
}

// Name returns the name of the toolset.
func (s *skimToolSet) Name() string {
	return ToolSetName
}
