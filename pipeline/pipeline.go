//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

// Package pipeline turns raw command output into a compact structural
// summary. Output below the size threshold passes through unchanged;
// anything larger is persisted as an artifact and replaced by its inferred
// schema, statistics and a drill hint. Schema extraction degrades
// gracefully (opaque nodes, raw stats) while artifact persistence fails
// loudly.
package pipeline

import (
	"context"
	"strings"

	"github.com/tonyzdev/skim/internal/telemetry"
	"github.com/tonyzdev/skim/log"
	"github.com/tonyzdev/skim/schema"
	"github.com/tonyzdev/skim/sniff"
	"github.com/tonyzdev/skim/store"
)

// Config is the explicit configuration for a Pipeline. Zero values fall
// back to the defaults; no component reads ambient global state.
type Config struct {
	// Threshold is the character count above which output is persisted
	// and summarized instead of returned inline.
	Threshold int
	// MaxSchemaDepth caps schema nesting.
	MaxSchemaDepth int
	// ArraySampleSize is how many leading array elements are sampled.
	ArraySampleSize int
	// TempDir is the cache directory name under the project root.
	TempDir string
	// PreviewLines is how many head lines plain-text summaries show.
	PreviewLines int
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:       1000,
		MaxSchemaDepth:  3,
		ArraySampleSize: 1,
		TempDir:         store.DefaultDirName,
		PreviewLines:    5,
	}
}

func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.Threshold <= 0 {
		c.Threshold = def.Threshold
	}
	if c.MaxSchemaDepth <= 0 {
		c.MaxSchemaDepth = def.MaxSchemaDepth
	}
	if c.ArraySampleSize <= 0 {
		c.ArraySampleSize = def.ArraySampleSize
	}
	if c.TempDir == "" {
		c.TempDir = def.TempDir
	}
	if c.PreviewLines <= 0 {
		c.PreviewLines = def.PreviewLines
	}
	return c
}

// Pipeline orchestrates sniffing, persistence, inference and rendering.
type Pipeline struct {
	cfg Config
	st  *store.Store
}

// New creates a Pipeline rooted at projectRoot.
func New(projectRoot string, cfg Config) *Pipeline {
	cfg = cfg.normalize()
	return &Pipeline{
		cfg: cfg,
		st:  store.New(projectRoot, store.WithDirName(cfg.TempDir)),
	}
}

// Store returns the artifact store owned by the pipeline, for drill, list
// and eviction front-ends.
func (p *Pipeline) Store() *store.Store {
	return p.st
}

// Config returns the normalized configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Summarize classifies content, persists it if it exceeds the threshold,
// and produces its summary. Only storage failures surface as errors;
// undecodable content degrades to an opaque schema with raw statistics.
func (p *Pipeline) Summarize(ctx context.Context, content []byte) (*Summary, error) {
	format := sniff.Sniff(content)
	ctx, span := telemetry.StartSpan(ctx, telemetry.OperationSummarize,
		telemetry.KeyFormat.String(string(format)),
		telemetry.KeyBytes.Int(len(content)),
	)

	if len(content) <= p.cfg.Threshold {
		s := &Summary{
			Format:    format,
			ByteSize:  len(content),
			ItemCount: countLines(string(content)),
			Unit:      "lines",
			Inline:    true,
			Content:   string(content),
		}
		telemetry.EndSpan(span, nil)
		return s, nil
	}

	art, err := p.st.Save(ctx, content, format)
	if err != nil {
		telemetry.EndSpan(span, err)
		return nil, err
	}
	span.SetAttributes(telemetry.KeyArtifact.String(art.Name))

	s := p.summarize(content, format)
	s.ArtifactPath = art.Path
	span.SetAttributes(telemetry.KeyItems.Int(s.ItemCount))
	telemetry.EndSpan(span, nil)
	log.Infof("summarized %d bytes of %s into %s", len(content), format, art.Name)
	return s, nil
}

// summarize builds the structural part of a Summary for persisted content.
func (p *Pipeline) summarize(content []byte, format sniff.Format) *Summary {
	opts := schema.Options{
		MaxDepth:   p.cfg.MaxSchemaDepth,
		SampleSize: p.cfg.ArraySampleSize,
	}
	s := &Summary{
		Format:   format,
		ByteSize: len(content),
		Hint:     drillHint(format),
	}
	text := string(content)

	switch format {
	case sniff.FormatJSON:
		p.fillStructured(s, schema.InferJSON(content, opts), text)
	case sniff.FormatYAML:
		p.fillStructured(s, schema.InferYAML(content, opts), text)
	case sniff.FormatXML:
		node := schema.InferXML(content, opts)
		s.Structure = schema.Render(node)
		s.ItemCount = countLines(text)
		s.Unit = "lines"
	case sniff.FormatCSV:
		csvSchema, err := schema.InferCSV(content, opts)
		if err != nil {
			// Passed the sniff probe but failed full decoding:
			// degrade to an opaque schema with raw line stats.
			log.Warnf("csv artifact failed decoding: %v", err)
			s.Structure = schema.Render(schema.Unparseable())
			s.ItemCount = countLines(text)
			s.Unit = "lines"
			break
		}
		s.Structure = schema.RenderCSV(csvSchema)
		s.ItemCount = csvSchema.Rows
		s.Unit = "rows"
	default:
		s.Preview = headLines(text, p.cfg.PreviewLines)
		s.ItemCount = countLines(text)
		s.Unit = "lines"
	}
	return s
}

// fillStructured renders a JSON/YAML node tree and derives the item count:
// the root array's length, or the length of the first array-valued field of
// a root object, or the root object's key count.
func (p *Pipeline) fillStructured(s *Summary, node *schema.Node, text string) {
	s.Structure = schema.Render(node)
	switch node.Kind {
	case schema.KindArray:
		s.ItemCount = node.Length
		s.Unit = "items"
	case schema.KindObject:
		for _, f := range node.Fields {
			if f.Node != nil && f.Node.Kind == schema.KindArray {
				s.ItemCount = f.Node.Length
				s.Unit = "items"
				return
			}
		}
		s.ItemCount = len(node.Fields)
		s.Unit = "keys"
	default:
		// Opaque root: fall back to raw line statistics.
		s.ItemCount = countLines(text)
		s.Unit = "lines"
	}
}

// drillHint suggests drill-down syntax appropriate to the format.
func drillHint(format sniff.Format) string {
	switch format {
	case sniff.FormatJSON, sniff.FormatYAML:
		return "Use skim_drill with a path query, e.g. '.users[0].name'."
	case sniff.FormatCSV:
		return "Use skim_drill with 'cols:name,age' or a row range like '1-20'."
	default:
		return "Use skim_drill with a line range like 'head:20' or '5-40'."
	}
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(strings.TrimRight(text, "\n"), "\n") + 1
}

// headLines returns the first n lines of text, marking truncation.
func headLines(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:n], "\n") + "\n..."
}
