//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

// Command skim-mcp exposes the skim toolset over an MCP stdio server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/tonyzdev/skim/log"
	"github.com/tonyzdev/skim/pipeline"
	"github.com/tonyzdev/skim/tool"
	skimtool "github.com/tonyzdev/skim/tool/skim"
)

func main() {
	var (
		projectRoot = flag.String("root", "", "project root directory (default: cwd)")
		threshold   = flag.Int("threshold", 0, "characters before output is cached (default 1000)")
		tempDir     = flag.String("temp-dir", "", "cache directory name (default .skim-cache)")
		logLevel    = flag.String("log-level", log.LevelInfo, "log level: debug, info, warn, error")
	)
	flag.Parse()
	log.SetLevel(*logLevel)

	cfg := pipeline.DefaultConfig()
	if *threshold > 0 {
		cfg.Threshold = *threshold
	}
	if *tempDir != "" {
		cfg.TempDir = *tempDir
	}

	root := *projectRoot
	if root == "" {
		// Agent launchers conventionally pass the workspace through the
		// environment.
		root = os.Getenv("SKIM_PROJECT_DIR")
	}

	toolset, err := skimtool.NewToolSet(
		skimtool.WithProjectRoot(root),
		skimtool.WithConfig(cfg),
	)
	if err != nil {
		log.Fatalf("creating toolset: %v", err)
	}
	defer toolset.Close()

	server := mcp.NewStdioServer("skim", "0.1.0")
	registerTools(server, toolset)

	log.Infof("starting skim MCP server (threshold=%d, cache=%s)",
		cfg.Threshold, cfg.TempDir)
	if err := server.Start(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// registerTools declares each skim tool on the MCP server and bridges its
// arguments onto the toolset's callable tools.
func registerTools(server *mcp.StdioServer, toolset tool.ToolSet) {
	callables := map[string]tool.CallableTool{}
	for _, ct := range toolset.Tools(context.Background()) {
		callables[ct.Declaration().Name] = ct
	}

	execTool := mcp.NewTool("skim_exec",
		mcp.WithDescription(callables["skim_exec"].Declaration().Description),
		mcp.WithString("command", mcp.Required(),
			mcp.Description("The shell command to execute")),
	)
	server.RegisterTool(execTool, bridge(callables["skim_exec"], "output"))

	drillTool := mcp.NewTool("skim_drill",
		mcp.WithDescription(callables["skim_drill"].Declaration().Description),
		mcp.WithString("file_path", mcp.Required(),
			mcp.Description("The saved file to read: a cache path, file name, or unique name fragment")),
		mcp.WithString("query",
			mcp.Description("Optional query: a JSON path, column selection or line range")),
	)
	server.RegisterTool(drillTool, bridge(callables["skim_drill"], "content"))

	listTool := mcp.NewTool("skim_list",
		mcp.WithDescription(callables["skim_list"].Declaration().Description),
		mcp.WithString("pattern",
			mcp.Description("Optional glob pattern to filter file names")),
	)
	server.RegisterTool(listTool, bridge(callables["skim_list"], ""))

	cleanTool := mcp.NewTool("skim_clean",
		mcp.WithDescription(callables["skim_clean"].Declaration().Description),
		mcp.WithNumber("older_than_hours",
			mcp.Description("Only delete files older than this many hours; 0 deletes all")),
	)
	server.RegisterTool(cleanTool, bridge(callables["skim_clean"], "message"))
}

// bridge adapts a callable tool to an MCP handler. The tool's JSON result
// is returned as text: the named field when set and present, the whole
// JSON document otherwise.
func bridge(ct tool.CallableTool, textField string) func(
	context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return nil, fmt.Errorf("encoding arguments: %w", err)
		}
		result, err := ct.Call(ctx, args)
		if err != nil {
			return nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(renderResult(result, textField)),
			},
		}, nil
	}
}

// renderResult extracts textField from the tool's response, falling back
// to the indented JSON encoding of the whole response.
func renderResult(result any, textField string) string {
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprint(result)
	}
	if textField == "" {
		return string(encoded)
	}
	var fields map[string]any
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return string(encoded)
	}
	if text, ok := fields[textField].(string); ok && text != "" {
		return text
	}
	return string(encoded)
}
